package helpers

import (
	"strings"
	"unicode/utf8"
)

const (
	PathSeparator = "/"
	// MaxNameLength matches the width of the name column, in characters.
	MaxNameLength = 255
)

// JoinNodePath builds the materialized path of a child named name under
// parentPath. An empty parentPath means the child is a root.
func JoinNodePath(parentPath, name string) string {
	return strings.TrimRight(parentPath, PathSeparator) + PathSeparator + name
}

// ParentPath returns the path with its final segment removed ("" for roots).
func ParentPath(path string) string {
	i := strings.LastIndex(path, PathSeparator)
	if i <= 0 {
		return ""
	}
	return path[:i]
}

// ReplaceLastSegment swaps the final segment of path for name.
func ReplaceLastSegment(path, name string) string {
	return JoinNodePath(ParentPath(path), name)
}

// DescendantPrefix is the prefix shared by every path strictly below path.
func DescendantPrefix(path string) string {
	return path + PathSeparator
}

// RebasePath moves path from under oldPrefix to under newPrefix. ok is false
// when path is neither oldPrefix nor one of its descendants.
func RebasePath(path, oldPrefix, newPrefix string) (string, bool) {
	if path == oldPrefix {
		return newPrefix, true
	}
	if !strings.HasPrefix(path, DescendantPrefix(oldPrefix)) {
		return path, false
	}
	return newPrefix + path[len(oldPrefix):], true
}

// SplitPath returns the non-empty segments of path.
func SplitPath(path string) []string {
	parts := strings.Split(path, PathSeparator)
	segments := parts[:0]
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// AncestorPaths returns the paths of every proper ancestor of path, root
// first. A root path has none.
func AncestorPaths(path string) []string {
	segments := SplitPath(path)
	if len(segments) < 2 {
		return nil
	}
	ancestors := make([]string, 0, len(segments)-1)
	current := ""
	for _, segment := range segments[:len(segments)-1] {
		current = JoinNodePath(current, segment)
		ancestors = append(ancestors, current)
	}
	return ancestors
}

const LikeEscape = "!"

// EscapeLike escapes the LIKE wildcards in s using LikeEscape, for use with
// "LIKE ? ESCAPE '!'".
func EscapeLike(s string) string {
	r := strings.NewReplacer(LikeEscape, LikeEscape+LikeEscape, "%", LikeEscape+"%", "_", LikeEscape+"_")
	return r.Replace(s)
}

// ValidateNodeName trims name and reports whether it can be used as a path
// segment.
func ValidateNodeName(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || trimmed == "." || trimmed == ".." || strings.Contains(trimmed, PathSeparator) {
		return trimmed, false
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return trimmed, false
	}
	return trimmed, true
}
