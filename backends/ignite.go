package backends

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/skierstats/skier-stats/config"
	"github.com/skierstats/skier-stats/utils"
)

// IgniteBackend caches lookup answers in an Apache Ignite cache through its
// REST API, https://ignite.apache.org/docs/latest/restapi
type IgniteBackend struct {
	sender    requestSender
	serverURL *url.URL
	headers   http.Header
	cacheName string
}

type httpClientWrapper interface {
	Do(req *http.Request) (*http.Response, error)
}

// requestSender sends a single REST command and returns the response body.
type requestSender interface {
	DoRequest(ctx context.Context, url *url.URL, headers http.Header) ([]byte, error)
}

type igniteSender struct {
	httpClient httpClientWrapper
}

// DoRequest issues a GET against url. Any status other than 200 is an error.
func (c *igniteSender) DoRequest(ctx context.Context, url *url.URL, headers http.Header) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return nil, err
	}
	if len(headers) > 0 {
		httpReq.Header = headers.Clone()
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Ignite error. Unexpected status code: %d", httpResp.StatusCode)
	}
	if err != nil {
		return nil, fmt.Errorf("Ignite error. IO reader error: %v", err)
	}
	return body, nil
}

// NewIgniteBackend builds a backend for the cache named in cfg, creating the
// cache first when cfg.Cache.CreateOnStart is set.
func NewIgniteBackend(cfg config.Ignite) *IgniteBackend {
	if cfg.Scheme == "" || cfg.Host == "" || cfg.Port == 0 || cfg.Cache.Name == "" {
		errMsg := "Error creating Ignite backend: configuration is missing ignite.scheme, ignite.host, ignite.port or ignite.cache.name"
		log.Fatal(errMsg)
		panic(errMsg)
	}

	serverURL, err := url.Parse(fmt.Sprintf("%s://%s:%d/ignite?cacheName=%s", cfg.Scheme, cfg.Host, cfg.Port, url.QueryEscape(cfg.Cache.Name)))
	if err != nil {
		errMsg := fmt.Sprintf("Error creating Ignite backend: error parsing Ignite host URL %v", err)
		log.Fatal(errMsg)
		panic(errMsg)
	}

	client := http.DefaultClient
	if !cfg.VerifyCert {
		client = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	}

	igb := &IgniteBackend{
		sender:    &igniteSender{httpClient: client},
		serverURL: serverURL,
		cacheName: cfg.Cache.Name,
	}
	if len(cfg.Headers) > 0 {
		igb.headers = http.Header{}
		for k, v := range cfg.Headers {
			igb.headers.Add(k, v)
		}
	}

	if cfg.Cache.CreateOnStart {
		if err := igb.createCache(context.Background()); err != nil {
			errMsg := fmt.Sprintf("Error creating Ignite backend: %v", err)
			log.Fatal(errMsg)
			panic(errMsg)
		}
	}
	log.Infof("Lookup answers will be cached in Ignite cache %s", cfg.Cache.Name)

	return igb
}

// igniteResponse is the envelope of every Ignite REST answer. Response holds
// a string for "get" and a bool for "put" and "getorcreate".
type igniteResponse struct {
	Error    string          `json:"error"`
	Response json.RawMessage `json:"response"`
	Status   int             `json:"successStatus"`
}

func (ig *IgniteBackend) command(ctx context.Context, params url.Values) (igniteResponse, error) {
	urlCopy := *ig.serverURL
	q := urlCopy.Query()
	for k, v := range params {
		q[k] = v
	}
	urlCopy.RawQuery = q.Encode()

	resp := igniteResponse{}
	body, err := ig.sender.DoRequest(ctx, &urlCopy, ig.headers)
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return resp, fmt.Errorf("Unmarshal response error: %v; Response body: %s", err, string(body))
	}
	if resp.Error != "" {
		return resp, fmt.Errorf("Ignite error. %s", resp.Error)
	}
	if resp.Status != 0 {
		return resp, fmt.Errorf("Ignite error. successStatus %d", resp.Status)
	}
	return resp, nil
}

func (ig *IgniteBackend) createCache(ctx context.Context) error {
	_, err := ig.command(ctx, url.Values{"cmd": {"getorcreate"}, "cacheName": {ig.cacheName}})
	return err
}

// Get returns a KEY_NOT_FOUND error when Ignite answers successfully with an
// empty response.
func (ig *IgniteBackend) Get(ctx context.Context, key string) (string, error) {
	resp, err := ig.command(ctx, url.Values{"cmd": {"get"}, "key": {key}})
	if err != nil {
		return "", err
	}

	var value string
	if len(resp.Response) > 0 && string(resp.Response) != "null" {
		if err := json.Unmarshal(resp.Response, &value); err != nil {
			return "", fmt.Errorf("Unmarshal response error: %v; Response: %s", err, string(resp.Response))
		}
	}
	if value == "" {
		return "", utils.NewLookupError(utils.KEY_NOT_FOUND)
	}
	return value, nil
}

// Put overwrites any value already stored under key. Ignite expects the
// expiration in milliseconds; a zero ttlSeconds keeps the cache's own policy.
func (ig *IgniteBackend) Put(ctx context.Context, key string, value string, ttlSeconds int) error {
	params := url.Values{"cmd": {"put"}, "key": {key}, "val": {value}}
	if ttlSeconds > 0 {
		params.Set("exp", strconv.Itoa(ttlSeconds*1000))
	}

	resp, err := ig.command(ctx, params)
	if err != nil {
		return err
	}

	var stored bool
	if err := json.Unmarshal(resp.Response, &stored); err != nil || !stored {
		return fmt.Errorf("Ignite error. put of key %s was not acknowledged: %s", key, string(resp.Response))
	}
	return nil
}
