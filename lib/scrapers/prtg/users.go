package prtg

import (
	"bytes"
	"context"
	"fmt"

	"prtgaudit/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// UserRef identifies one account on the roster page. ID and Name come
// from the same anchor node, so they can never fall out of alignment.
type UserRef struct {
	Id   int
	Name string
}

// the roster endpoint paginates by default, so request a page size
// well past any realistic account count
const rosterPageSize = "9000"

// FetchUserList retrieves the full user roster in document order, one
// ref per distinct user id. An empty roster after a successful fetch
// yields ErrNoUsersFound since it usually signals a permissions
// problem rather than a genuinely empty account list.
func (c *Client) FetchUserList(ctx context.Context) ([]UserRef, error) {
	ctx, span := tracer.Start(ctx, "client:FetchUserList")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(c.sessionParams()).
		SetQueryParam("count", rosterPageSize).
		Get("/systemsetup/userlist.htm")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch roster page")
		return nil, err
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "unexpected status")
		return nil, fmt.Errorf("roster page returned status %d", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse roster html")
		return nil, err
	}

	anchors := htmlutil.Anchors(doc.Find(`a[href*="user.htm?id="]`))

	var refs []UserRef
	seen := map[int]bool{}
	for _, a := range anchors {
		id, ok := htmlutil.HrefID(a.Href, "id")
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		refs = append(refs, UserRef{Id: id, Name: a.Name})
	}

	span.SetAttributes(attribute.Int("user_count", len(refs)))
	if len(refs) == 0 {
		span.SetStatus(codes.Error, ErrNoUsersFound.Error())
		return nil, ErrNoUsersFound
	}
	return refs, nil
}
