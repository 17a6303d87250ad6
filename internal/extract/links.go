package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/amishk599/boardwatch/internal/model"
)

// LinkRules describe how a board's script links map to detail pages.
type LinkRules struct {
	// DetailURLTemplate is the detail page URL with {id} (and optionally
	// {menu}) placeholders.
	DetailURLTemplate string
	// MenuNo is the fixed board/menu parameter substituted for {menu}.
	MenuNo string
	// HandlerNames is the allow-list of script functions whose first quoted
	// argument is the posting id.
	HandlerNames []string
}

// LinkResolver turns the raw link value of a listing row into an absolute
// posting URL.
type LinkResolver struct {
	handlerCall *regexp.Regexp
	template    string
	menuNo      string
}

// NewLinkResolver compiles the handler allow-list into a call matcher.
func NewLinkResolver(rules LinkRules) (*LinkResolver, error) {
	if !strings.Contains(rules.DetailURLTemplate, "{id}") {
		return nil, fmt.Errorf("detail URL template %q has no {id} placeholder", rules.DetailURLTemplate)
	}

	var names []string
	for _, n := range rules.HandlerNames {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, regexp.QuoteMeta(n))
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one script handler name is required")
	}

	// name('ID', ...) or name("ID") with optional spaces after the paren.
	pattern := `\b(?:` + strings.Join(names, "|") + `)\(\s*['"]([^'"]+)['"]`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile handler pattern: %w", err)
	}

	return &LinkResolver{
		handlerCall: re,
		template:    rules.DetailURLTemplate,
		menuNo:      rules.MenuNo,
	}, nil
}

// Resolve maps raw to an absolute URL. Resolution is tried in order:
// script invocation of an allow-listed handler, root-relative path against
// base, then raw as-is. ok is false when the row should be skipped.
func (r *LinkResolver) Resolve(base *url.URL, raw string) (resolved string, reason model.SkipReason, ok bool) {
	raw = strings.TrimSpace(raw)

	if isScript(raw) {
		id, found := r.postingID(raw)
		if !found {
			return "", model.SkipUnresolvedJS, false
		}
		return r.detailURL(id), "", true
	}

	if strings.HasPrefix(raw, "/") {
		ref, err := url.Parse(raw)
		if err != nil {
			return raw, "", true
		}
		return base.ResolveReference(ref).String(), "", true
	}

	if raw == "" {
		return "", model.SkipEmptyLink, false
	}
	return raw, "", true
}

// preferOnclick reports whether href carries no usable target, so the
// element's onclick handler should be consulted instead.
func (r *LinkResolver) preferOnclick(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return true
	}
	return isScript(href) && !r.handlerCall.MatchString(href)
}

func (r *LinkResolver) postingID(call string) (string, bool) {
	m := r.handlerCall.FindStringSubmatch(call)
	if m == nil {
		return "", false
	}
	id := strings.TrimSpace(m[1])
	return id, id != ""
}

func (r *LinkResolver) detailURL(id string) string {
	return strings.NewReplacer(
		"{id}", url.QueryEscape(id),
		"{menu}", url.QueryEscape(r.menuNo),
	).Replace(r.template)
}

func isScript(raw string) bool {
	return len(raw) >= len("javascript:") && strings.EqualFold(raw[:len("javascript:")], "javascript:")
}
