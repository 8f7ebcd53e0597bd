package xmlevent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, r Reader) []string {
	t.Helper()
	var events []string
	for r.Advance() {
		switch r.NodeType() {
		case Start:
			events = append(events, "start:"+r.Name().String())
		case End:
			events = append(events, "end:"+r.Name().String())
		case Text:
			if strings.TrimSpace(r.Text()) != "" {
				events = append(events, "text:"+r.Text())
			}
		}
	}
	require.NoError(t, r.Err())
	return events
}

func TestReaderEmitsBalancedEvents(t *testing.T) {
	const doc = `<root xmlns="urn:test"><a>hello</a><b/></root>`
	events := drain(t, NewReader(strings.NewReader(doc)))
	assert.Equal(t, []string{
		"start:{urn:test}root",
		"start:{urn:test}a",
		"text:hello",
		"end:{urn:test}a",
		"start:{urn:test}b",
		"end:{urn:test}b",
		"end:{urn:test}root",
	}, events)
}

func TestReaderResolvesAttributeNamespaces(t *testing.T) {
	const doc = `<root xmlns:x="urn:x"><a x:id="1" plain="2"/></root>`
	r := NewReader(strings.NewReader(doc))
	require.True(t, r.Advance()) // root
	require.True(t, r.Advance()) // a
	require.Equal(t, Start, r.NodeType())
	require.Equal(t, 2, r.NumAttr())

	v, ok := r.AttrValueByName("urn:x", "id")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	v, ok = r.AttrValueByName("", "plain")
	require.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestReaderTracksDepth(t *testing.T) {
	const doc = `<root><a><b/></a></root>`
	r := NewReader(strings.NewReader(doc))
	var depths []int
	for r.Advance() {
		if r.NodeType() == Start {
			depths = append(depths, r.Depth())
		}
	}
	require.NoError(t, r.Err())
	assert.Equal(t, []int{1, 2, 3}, depths)
}

func TestReaderEndEventDepthMatchesItsOwnStart(t *testing.T) {
	const doc = `<root><a><b/></a><c/></root>`
	r := NewReader(strings.NewReader(doc))
	var starts, ends []int
	for r.Advance() {
		switch r.NodeType() {
		case Start:
			starts = append(starts, r.Depth())
		case End:
			ends = append(ends, r.Depth())
		}
	}
	require.NoError(t, r.Err())
	// Starts arrive as root, a, b, c; ends as b, a, c, root (b and a
	// close before c opens, and root closes last).
	assert.Equal(t, []int{1, 2, 3}, starts[:3])
	assert.Equal(t, 2, starts[3]) // c
	assert.Equal(t, []int{3, 2}, ends[:2]) // b, a
	assert.Equal(t, []int{2, 1}, ends[2:]) // c, root
}

func TestReaderCoalescesAdjacentText(t *testing.T) {
	const doc = `<root>a&amp;b&lt;c</root>`
	r := NewReader(strings.NewReader(doc))
	require.True(t, r.Advance()) // root start
	require.True(t, r.Advance()) // text
	assert.Equal(t, Text, r.NodeType())
	assert.Equal(t, "a&b<c", r.Text())
}

func TestReaderResolvesQNameAttributeValues(t *testing.T) {
	const doc = `<root xmlns:xs="urn:xs"><a type="xs:string"><b xmlns:xs="urn:inner" type="xs:int"/></a></root>`
	r := NewReader(strings.NewReader(doc))
	require.True(t, r.Advance()) // root
	require.True(t, r.Advance()) // a
	v, _ := r.AttrValueByName("", "type")
	q, ok := r.ResolveQName(v)
	require.True(t, ok)
	assert.Equal(t, "urn:xs", q.Space)
	assert.Equal(t, "string", q.Local)

	require.True(t, r.Advance()) // b
	v, _ = r.AttrValueByName("", "type")
	q, ok = r.ResolveQName(v)
	require.True(t, ok)
	assert.Equal(t, "urn:inner", q.Space)
	assert.Equal(t, "int", q.Local)

	require.True(t, r.Advance()) // end b
	require.True(t, r.Advance()) // end a
	require.True(t, r.Advance()) // end root
	q, ok = r.ResolveQName("xs:string")
	assert.False(t, ok, "root binding must not leak past the document's end tag")
}

func TestReaderReportsMalformedInput(t *testing.T) {
	r := NewReader(strings.NewReader("<root><unclosed></root>"))
	for r.Advance() {
	}
	assert.Error(t, r.Err())
}
