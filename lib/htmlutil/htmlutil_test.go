package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const anchorPage = `
<html><body>
<table>
<tr><td><a href="user.htm?id=10">Alice   Smith</a></td></tr>
<tr><td><a href="user.htm?id=20">
	Bob
</a></td></tr>
<tr><td><a href="group.htm?id=5">Admins</a></td></tr>
</table>
</body></html>`

func TestAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(anchorPage))
	require.NoError(t, err)

	anchors := Anchors(doc.Find(`a[href*="user.htm?id="]`))
	require.Equal(t, []Anchor{
		{Name: "Alice Smith", Href: "user.htm?id=10"},
		{Name: "Bob", Href: "user.htm?id=20"},
	}, anchors)
}

func TestHrefID(t *testing.T) {
	id, ok := HrefID("user.htm?id=123&tabid=0", "id")
	require.True(t, ok)
	require.Equal(t, 123, id)

	_, ok = HrefID("user.htm?tabid=0", "id")
	require.False(t, ok)

	_, ok = HrefID("user.htm?id=abc", "id")
	require.False(t, ok)
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "Paessler PRTG", CleanText("  Paessler \n\t PRTG  "))
}
