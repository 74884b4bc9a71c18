package prtg

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"prtgaudit/lib/htmlutil"
	"prtgaudit/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Sentinels written in place of real data when extraction cannot
// produce a value.
const (
	SentinelNotFound = "Not found"
	SentinelUnknown  = "Unknown"
	SentinelError    = "Error"
)

// UserDetail holds the three fields scraped from one user's detail
// page, already normalized.
type UserDetail struct {
	Status       string
	PrimaryGroup string
	LastLogin    string
}

// an extractRule is one attempt at pulling a field out of the detail
// page. rules for a field are tried in order until one succeeds,
// falling through to the field's default sentinel.
type extractRule func(doc *goquery.Document) (string, bool)

func extractField(doc *goquery.Document, rules []extractRule, fallback string) string {
	for _, rule := range rules {
		if v, ok := rule(doc); ok {
			return v
		}
	}
	return fallback
}

// the selected/checked `active` input wins; the vendor markup flips
// between `checked` and `selected` depending on the endpoint version
func statusSelected(doc *goquery.Document) (string, bool) {
	sel := doc.Find(`input[name*="active"][checked], input[name*="active"][selected]`).First()
	v, ok := sel.Attr("value")
	return v, ok && v != ""
}

func statusAnyInput(doc *goquery.Document) (string, bool) {
	v, ok := doc.Find(`input[name*="active"]`).First().Attr("value")
	return v, ok && v != ""
}

func groupSelectControl(doc *goquery.Document) (string, bool) {
	sel := doc.Find(`select[name*="primarygroup"] option[selected]`).First()
	if len(sel.Nodes) == 0 {
		return "", false
	}
	name := htmlutil.CleanText(htmlutil.GetText(sel.Nodes[0]))
	return name, name != ""
}

var groupLabelMatchers = []string{"primarygroup"}

func groupLabelledRow(doc *goquery.Document) (string, bool) {
	value := ""
	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return true
		}
		label := cells.First().Text()
		if !textutil.MatchLabel(label, groupLabelMatchers) {
			return true
		}
		value = htmlutil.CleanText(cells.Eq(1).Text())
		return false
	})
	return value, value != ""
}

func lastLoginProperty(doc *goquery.Document) (string, bool) {
	sel := doc.Find("div.readonlyproperty").First()
	if len(sel.Nodes) == 0 {
		return "", false
	}
	v := htmlutil.CleanText(sel.Text())
	return v, v != ""
}

// FetchUserDetail scrapes one user's detail page. Fields that no rule
// can extract come back as their default sentinel; the returned error
// covers transport/parse failure only.
func (c *Client) FetchUserDetail(ctx context.Context, id int) (UserDetail, error) {
	ctx, span := tracer.Start(ctx, "client:FetchUserDetail")
	defer span.End()
	span.SetAttributes(attribute.Int("user_id", id))

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(c.sessionParams()).
		SetQueryParam("id", strconv.Itoa(id)).
		Get("/systemsetup/user.htm")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch detail page")
		return UserDetail{}, err
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "unexpected status")
		return UserDetail{}, fmt.Errorf("detail page for user %d returned status %d", id, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse detail html")
		return UserDetail{}, err
	}

	return UserDetail{
		Status: NormalizeStatus(extractField(
			doc,
			[]extractRule{statusSelected, statusAnyInput},
			SentinelUnknown,
		)),
		PrimaryGroup: extractField(
			doc,
			[]extractRule{groupSelectControl, groupLabelledRow},
			SentinelUnknown,
		),
		LastLogin: NormalizeLastLogin(extractField(
			doc,
			[]extractRule{lastLoginProperty},
			SentinelNotFound,
		)),
	}, nil
}

// FetchUserDetails scrapes the detail page of every roster entry, one
// request at a time in roster order. A single user's failure never
// aborts the batch: that user's fields are set to the error sentinel
// and the loop moves on.
func (c *Client) FetchUserDetails(ctx context.Context, refs []UserRef) map[int]UserDetail {
	ctx, span := tracer.Start(ctx, "client:FetchUserDetails")
	defer span.End()
	span.SetAttributes(attribute.Int("user_count", len(refs)))

	details := make(map[int]UserDetail, len(refs))
	for i, ref := range refs {
		slog.InfoContext(
			ctx, "fetching user detail",
			"server", c.BaseUrl.Host,
			"user", i+1,
			"of", len(refs),
		)
		detail, err := c.FetchUserDetail(ctx, ref.Id)
		if err != nil {
			slog.WarnContext(
				ctx, "failed to fetch user detail",
				"user_id", ref.Id,
				"name", ref.Name,
				"err", err,
			)
			detail = UserDetail{
				Status:       SentinelError,
				PrimaryGroup: SentinelError,
				LastLogin:    SentinelError,
			}
		}
		details[ref.Id] = detail
	}
	return details
}
