package version

// Ver holds the version derived from the latest git tag
// Populated using:
//
//	go build -ldflags "-X github.com/skierstats/skier-stats/version.Ver=`git describe --tags | sed 's/-.*$//'`"
var Ver string

// Rev holds binary revision string
// Populated using:
//
//	go build -ldflags "-X github.com/skierstats/skier-stats/version.Rev=`git rev-parse --short HEAD`"
var Rev string
