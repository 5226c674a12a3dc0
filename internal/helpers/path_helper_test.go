package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinNodePath(t *testing.T) {
	assert.Equal(t, "/Docs", JoinNodePath("", "Docs"))
	assert.Equal(t, "/Docs/Reports", JoinNodePath("/Docs", "Reports"))
	assert.Equal(t, "/Docs/Reports", JoinNodePath("/Docs/", "Reports"))
}

func TestParentPathAndReplaceLastSegment(t *testing.T) {
	assert.Equal(t, "", ParentPath("/Docs"))
	assert.Equal(t, "/Docs", ParentPath("/Docs/Reports"))
	assert.Equal(t, "/Archive", ReplaceLastSegment("/Docs", "Archive"))
	assert.Equal(t, "/Docs/2024", ReplaceLastSegment("/Docs/Reports", "2024"))
}

func TestRebasePath(t *testing.T) {
	tests := []struct {
		path, oldPrefix, newPrefix string
		want                       string
		ok                         bool
	}{
		{"/A", "/A", "/A2", "/A2", true},
		{"/A/B", "/A", "/A2", "/A2/B", true},
		{"/A/B/A", "/A", "/X", "/X/B/A", true},
		{"/AB/C", "/A", "/X", "/AB/C", false},
		{"/Other", "/A", "/X", "/Other", false},
	}
	for _, tt := range tests {
		got, ok := RebasePath(tt.path, tt.oldPrefix, tt.newPrefix)
		assert.Equal(t, tt.want, got, tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
	}
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, SplitPath("/A/B"))
	assert.Empty(t, SplitPath("/"))
}

func TestAncestorPaths(t *testing.T) {
	assert.Equal(t, []string{"/A", "/A/B"}, AncestorPaths("/A/B/c.txt"))
	assert.Equal(t, []string{"/A"}, AncestorPaths("/A/B"))
	assert.Empty(t, AncestorPaths("/A"))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "/50!%!_off!!", EscapeLike("/50%_off!"))
}

func TestValidateNodeName(t *testing.T) {
	name, ok := ValidateNodeName("  Reports ")
	assert.True(t, ok)
	assert.Equal(t, "Reports", name)

	for _, bad := range []string{"", "   ", "a/b", "..", ".", strings.Repeat("a", MaxNameLength+1)} {
		_, ok := ValidateNodeName(bad)
		assert.False(t, ok, bad)
	}
}

func TestValidateNodeNameCountsCharacters(t *testing.T) {
	_, ok := ValidateNodeName(strings.Repeat("a", MaxNameLength))
	assert.True(t, ok)

	// 255 two-byte characters fit a varchar(255) column.
	_, ok = ValidateNodeName(strings.Repeat("é", MaxNameLength))
	assert.True(t, ok)
	_, ok = ValidateNodeName(strings.Repeat("é", MaxNameLength+1))
	assert.False(t, ok)
}
