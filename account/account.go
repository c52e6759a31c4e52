// Package account derives properties of colon-separated account paths such as
// "joint:expenses:dining" or "alice:assets:savings".
//
// Every function here is computed from the path on demand. Nothing is cached
// on postings, so classification always follows the current path.
package account

import (
	"regexp"
	"strings"
)

// Separator joins the segments of an account path.
const Separator = ":"

// Prefixes that mark shared bookkeeping.
const (
	JointPrefix         = "joint:"
	JointExpensesPrefix = "joint:expenses:"
	JointIncomePrefix   = "joint:income:"
	AssetsSegment       = "assets"
	ExpensesSegment     = "expenses"
	IncomeSegment       = "income"
)

// IncomePattern matches income accounts, optionally scoped to joint
// ownership. Group 1 is the income category.
//
// ExpensePattern matches expense accounts with at most one owner segment in
// front. Group 1 is the expense category.
var (
	IncomePattern  = regexp.MustCompile(`(?:joint:)*income:(.+)$`)
	ExpensePattern = regexp.MustCompile(`(?:[^:]+:)?expenses:(.+)$`)
)

// Segments splits a path into its segments.
func Segments(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// IsJoint reports whether the path is owned jointly.
func IsJoint(path string) bool {
	return strings.HasPrefix(path, JointPrefix)
}

// IsJointExpense reports whether the path starts with "joint:expenses:".
func IsJointExpense(path string) bool {
	return strings.HasPrefix(path, JointExpensesPrefix)
}

// IsJointIncome reports whether the path starts with "joint:income:".
func IsJointIncome(path string) bool {
	return strings.HasPrefix(path, JointIncomePrefix)
}

// Category returns the segments after the second one for joint accounts,
// e.g. "dining:out" for "joint:expenses:dining:out". Personal accounts have
// no category.
func Category(path string) string {
	if !IsJoint(path) {
		return ""
	}
	segments := Segments(path)
	if len(segments) <= 2 {
		return ""
	}
	return strings.Join(segments[2:], Separator)
}

// Subcategory returns the segment following the literal "expenses" segment
// of a joint expense account.
func Subcategory(path string) string {
	if !IsJointExpense(path) {
		return ""
	}
	segments := Segments(path)
	for i, s := range segments {
		if s == ExpensesSegment && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	return ""
}

// Owner returns the first segment of the path.
func Owner(path string) string {
	owner, _, _ := strings.Cut(path, Separator)
	return owner
}

// LastSegment returns the final segment of the path.
func LastSegment(path string) string {
	if i := strings.LastIndex(path, Separator); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Prefixes returns every ancestor of a category including itself:
// "a:b:c" yields "a", "a:b" and "a:b:c".
func Prefixes(category string) []string {
	segments := Segments(category)
	prefixes := make([]string, 0, len(segments))
	for i := range segments {
		prefixes = append(prefixes, strings.Join(segments[:i+1], Separator))
	}
	return prefixes
}

// IsAsset reports whether the path starts with an "assets" segment or
// contains one.
func IsAsset(path string) bool {
	return strings.HasPrefix(path, AssetsSegment+Separator) ||
		strings.Contains(path, Separator+AssetsSegment+Separator)
}

// AssetPath returns the sub-path starting at the "assets" segment, e.g.
// "assets:savings" for "alice:assets:savings". Paths without that segment
// yield an empty string.
func AssetPath(path string) string {
	segments := Segments(path)
	for i, s := range segments {
		if s == AssetsSegment {
			return strings.Join(segments[i:], Separator)
		}
	}
	return ""
}

// IncomeCategory returns the category of an income account and whether the
// path is one.
func IncomeCategory(path string) (string, bool) {
	m := IncomePattern.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExpenseCategory returns the category of an expense account and whether the
// path is one.
func ExpenseCategory(path string) (string, bool) {
	m := ExpensePattern.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}
