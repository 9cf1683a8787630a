// Package naming derives identifiers for generated functions and interfaces.
package naming

import (
	"regexp"
	"strings"
)

var (
	trimRe  = regexp.MustCompile(`(^/)|(/$)|[{}]`)
	splitRe = regexp.MustCompile(`[/_-](\w)`)
)

// APIName derives a function name from a path and method: slashes at either
// end and parameter braces are dropped, the character following each "/",
// "_" or "-" is upper-cased, and the method is prepended.
//
//	APIName("/user/{id}", "get") == "getUserId"
func APIName(path, method string) string {
	seg := trimRe.ReplaceAllString(path, "")
	seg = splitRe.ReplaceAllStringFunc(seg, func(m string) string {
		return strings.ToUpper(m[1:])
	})
	return method + Capitalize(seg)
}

// InterfaceType is the role a generated declaration plays for an operation.
type InterfaceType string

const (
	Query    InterfaceType = "query"
	Path     InterfaceType = "path"
	Body     InterfaceType = "body"
	FormData InterfaceType = "formData"
	Response InterfaceType = "response"
)

// InterfaceTypes lists every InterfaceType in processing order.
var InterfaceTypes = []InterfaceType{Query, Path, Body, FormData, Response}

// InterfaceName joins an api name with the capitalized interface type:
// InterfaceName("getUserId", Query) == "getUserIdQuery".
func InterfaceName(apiName string, t InterfaceType) string {
	return apiName + Capitalize(string(t))
}

// Capitalize upper-cases a leading ASCII lower-case letter and leaves
// everything else untouched.
func Capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
