package naming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIName(t *testing.T) {
	cases := []struct {
		path, method, want string
	}{
		{"/user/{id}", "get", "getUserId"},
		{"/user/{id}/posts", "get", "getUserIdPosts"},
		{"/user/{id}/posts", "post", "postUserIdPosts"},
		{"/pet/find_by-status/", "get", "getPetFindByStatus"},
		{"/", "get", "get"},
		{"/v1/9lives", "delete", "deleteV19lives"},
		{"/Upper", "put", "putUpper"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, APIName(tc.path, tc.method), tc.path)
	}
}

func TestAPIName_MethodOnlyDifference(t *testing.T) {
	get := APIName("/user/{id}/posts", "get")
	post := APIName("/user/{id}/posts", "post")
	assert.Equal(t, get, APIName("/user/{id}/posts", "get"))
	assert.Equal(t, strings.TrimPrefix(get, "get"), strings.TrimPrefix(post, "post"))
}

func TestInterfaceName(t *testing.T) {
	assert.Equal(t, "getUserIdQuery", InterfaceName("getUserId", Query))
	assert.Equal(t, "postUploadFormData", InterfaceName("postUpload", FormData))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "Abc", Capitalize("abc"))
	assert.Equal(t, "Abc", Capitalize("Abc"))
	assert.Equal(t, "_abc", Capitalize("_abc"))
	assert.Equal(t, "éa", Capitalize("éa"))
}
