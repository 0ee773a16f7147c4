package utils

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilePathToURI(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix paths")
	}
	assert.Equal(t, "file:///home/user/notes.txt", FilePathToURI("/home/user/notes.txt"))
}

func TestURIToFilePath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix paths")
	}

	assert.Equal(t, "/home/user/notes.txt", URIToFilePath("file:///home/user/notes.txt"))
	assert.Equal(t, "/home/user/my file.txt", URIToFilePath("file:///home/user/my%20file.txt"),
		"percent-escapes decode")
	assert.Equal(t, "/plain/path.txt", URIToFilePath("/plain/path.txt"),
		"plain paths pass through")
}

func TestRoundTripPreservesSpecialCharacters(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix paths")
	}

	for _, path := range []string{
		"/home/user/project/main.txt",
		"/home/user name/my file.txt",
		"/tmp/100%.txt",
	} {
		assert.Equal(t, path, URIToFilePath(FilePathToURI(path)))
	}
}

func TestIsFileURI(t *testing.T) {
	assert.True(t, IsFileURI("file:///a/b"))
	assert.False(t, IsFileURI("/a/b"))
	assert.False(t, IsFileURI("untitled:Untitled-1"))
}
