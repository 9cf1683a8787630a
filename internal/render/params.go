package render

import "github.com/mark3labs/swagger2ts/internal/field"

// HeaderParams feeds the header template.
type HeaderParams struct {
	Title    string
	Version  string
	BasePath string
	// Date is empty unless the caller supplied a clock.
	Date string
}

// InterfaceParams feeds the interface template. Field is the root of the
// declared type.
type InterfaceParams struct {
	Name        string
	Description string
	Field       field.Field
}

// FuncParams feeds the func template. Query, Path, Body, FormData and
// Response hold a type expression or an interface name; empty means the
// group is absent.
type FuncParams struct {
	Name        string
	Description string
	URL         string
	Method      string
	Query       string
	Path        string
	Body        string
	FormData    string
	Response    string
	// RootBase is set when the module's basePath is "/"; URL is then used
	// without the basePath prefix.
	RootBase bool
	// Interfaces holds the rendered declarations this function refers to.
	Interfaces []string
}

type ClassParams struct {
	Name        string
	Description string
	Methods     []string
}

// ModuleParams feeds the module template. Interfaces are de-duplicated
// declarations for every class.
type ModuleParams struct {
	BasePath   string
	Date       string
	Interfaces []string
	Classes    []string
}

type BodyParams struct {
	Tags []TagParams
}

// TagParams is one entry of the tag summary.
type TagParams struct {
	Key         string      `json:"key"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	APIs        []APIParams `json:"apis"`
}

type APIParams struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
