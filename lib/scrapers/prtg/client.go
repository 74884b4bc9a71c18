package prtg

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"strings"
	"time"

	"prtgaudit/lib/restyutil"
	"prtgaudit/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/prtg")

var ErrAuthentication = fmt.Errorf("authentication failed")
var ErrNoUsersFound = fmt.Errorf("no users found on the server")

// Client scrapes a single PRTG server's web interface. Login exchanges
// a username/password pair for a passhash which scopes every
// subsequent request; the passhash is treated as valid for the
// remainder of the run.
type Client struct {
	BaseUrl  *url.URL
	Http     *resty.Client
	Username string
	Passhash string
}

type ClientOptions struct {
	BaseUrl string
	// tolerate self-signed certificates on the server. this is a
	// deliberate trust tradeoff for appliance-style deployments and
	// must stay an explicit opt-in.
	InsecureTls bool
	// when non-nil, request/response transcripts are dumped here
	DebugOutput restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetTimeout(time.Second * 30)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	if opts.InsecureTls {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	if opts.DebugOutput != nil {
		restyutil.InstrumentClient(client, tracer, opts.DebugOutput)
	} else {
		telemetry.InstrumentResty(client, "scrapers/prtg/http")
	}

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// Login issues the passhash exchange. Credentials go out as query
// values so resty percent-encodes characters like `&`, `#`, `%` and
// space which would otherwise corrupt the query string.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("username", username).
		SetQueryParam("password", password).
		Get("/api/getpasshash.htm")
	if err != nil {
		span.SetStatus(codes.Error, "failed to request passhash")
		return err
	}

	if res.StatusCode() == 401 {
		span.SetStatus(codes.Error, "unauthorized")
		return fmt.Errorf(
			"%w: got 401, check your username/password and make sure the account has web/API access",
			ErrAuthentication,
		)
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "unexpected status")
		return fmt.Errorf("%w: passhash endpoint returned status %d", ErrAuthentication, res.StatusCode())
	}

	passhash := strings.TrimSpace(res.String())
	if passhash == "" {
		span.SetStatus(codes.Error, "empty passhash")
		return fmt.Errorf("%w: passhash endpoint returned an empty body", ErrAuthentication)
	}

	c.Username = username
	c.Passhash = passhash
	return nil
}

func (c *Client) sessionParams() map[string]string {
	return map[string]string{
		"username": c.Username,
		"passhash": c.Passhash,
	}
}
