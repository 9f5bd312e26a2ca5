package primegaming

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"primelooter/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("platforms/primegaming")

// BaseURL is the production portal. Tests point NewClient at an
// httptest server instead.
const BaseURL = "https://gaming.amazon.com"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/117.0"

var MissingCsrfToken = fmt.Errorf("could not find csrf-key on the portal home page")

// Client talks to the Prime Gaming GraphQL endpoint using a session
// built from browser-exported cookies plus a scraped csrf token.
type Client struct {
	baseUrl string
	http    *resty.Client

	// retained so the transport can be rebuilt after Close
	cookies []*http.Cookie
	csrf    string
}

func NewClient(baseUrl string) (*Client, error) {
	c := &Client{baseUrl: baseUrl}
	if err := c.rebuildTransport(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) rebuildTransport() error {
	client := resty.New()
	client.SetBaseURL(c.baseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 30)

	if len(c.cookies) > 0 {
		client.SetCookies(c.cookies)
	}
	if c.csrf != "" {
		client.SetHeader("csrf-token", c.csrf)
	}

	telemetry.InstrumentResty(client, "platforms/primegaming/http")

	c.http = client
	return nil
}

// Close drops the underlying transport. The next request rebuilds it
// with the same cookies and csrf token.
func (c *Client) Close() {
	if c.http != nil {
		c.http.GetClient().CloseIdleConnections()
	}
	c.http = nil
}

func (c *Client) ensureTransport() error {
	if c.http != nil {
		return nil
	}
	return c.rebuildTransport()
}

// LoginCookies installs browser-exported session cookies and scrapes
// the csrf token off the portal home page. It performs no credential
// exchange: the cookies are the credentials.
func (c *Client) LoginCookies(ctx context.Context, cookies []*http.Cookie) error {
	ctx, span := tracer.Start(ctx, "client:LoginCookies")
	defer span.End()

	if err := c.ensureTransport(); err != nil {
		return err
	}

	c.cookies = cookies
	c.http.SetCookies(cookies)

	res, err := c.http.R().
		SetContext(ctx).
		Get("/home")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch home page")
		return err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "home page returned an error status")
		return fmt.Errorf("home page returned %s", res.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse home page html")
		return err
	}
	csrf := doc.Find("input[name=csrf-key]").AttrOr("value", "")
	if csrf == "" {
		span.SetStatus(codes.Error, MissingCsrfToken.Error())
		return MissingCsrfToken
	}

	c.csrf = csrf
	c.http.SetHeader("csrf-token", csrf)
	return nil
}
