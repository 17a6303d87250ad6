package notifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amishk599/boardwatch/internal/model"
)

func TestBuildDigest(t *testing.T) {
	postings := []model.Posting{
		{Title: "연구교수 채용", URL: "https://example.org/view.do?boardId=1&menuNo=200361", PostedAt: "2025.03.04"},
		{Title: "<b>Lab</b> & Co", URL: "https://example.org/2", PostedAt: ""},
	}

	d := BuildDigest("KHU 채용", postings)

	assert.Equal(t, "[KHU 채용] 2 new postings", d.Subject)
	assert.Equal(t, 2, d.Count)
	assert.Equal(t,
		`<p>New postings: 2</p><ul>`+
			`<li><a href="https://example.org/view.do?boardId=1&amp;menuNo=200361">연구교수 채용</a> (2025.03.04)</li>`+
			`<li><a href="https://example.org/2">&lt;b&gt;Lab&lt;/b&gt; &amp; Co</a></li>`+
			`</ul>`,
		d.HTML)
	assert.Contains(t, d.Text, "- 연구교수 채용 (2025.03.04)\n  https://example.org/view.do?boardId=1&menuNo=200361\n")
	assert.Contains(t, d.Text, "- <b>Lab</b> & Co\n  https://example.org/2\n")
}

func TestBuildDigest_SingularSubject(t *testing.T) {
	d := BuildDigest("Board", []model.Posting{{Title: "a", URL: "https://example.org/a"}})
	assert.Equal(t, "[Board] 1 new posting", d.Subject)
}

func TestBuildDigest_PreservesOrder(t *testing.T) {
	postings := []model.Posting{
		{Title: "second", URL: "https://example.org/2"},
		{Title: "first", URL: "https://example.org/1"},
	}

	d := BuildDigest("Board", postings)

	assert.Less(t, strings.Index(d.HTML, "second"), strings.Index(d.HTML, "first"))
}
