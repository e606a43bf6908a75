package language

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromFilename(t *testing.T) {
	tests := []struct {
		name string
		file string
		want Label
	}{
		{"python", "main.py", "Python"},
		{"javascript", "app.js", "JavaScript"},
		{"typescript", "index.ts", "TypeScript"},
		{"java", "Main.java", "Java"},
		{"cpp", "engine.cpp", "C++"},
		{"cxx", "engine.cxx", "C++"},
		{"header h", "engine.h", "C++"},
		{"header hpp", "engine.hpp", "C++"},
		{"c", "main.c", "C"},
		{"csharp", "Program.cs", "C#"},
		{"ruby", "app.rb", "Ruby"},
		{"go", "main.go", "Go"},
		{"rust", "lib.rs", "Rust"},
		{"php", "index.php", "PHP"},
		{"swift", "App.swift", "Swift"},
		{"kotlin", "Main.kt", "Kotlin"},
		{"uppercase extension", "MAIN.PY", "Python"},
		{"last dot wins", "archive.tar.go", "Go"},
		{"nested path", "src/pkg/util.rs", "Rust"},
		{"unlisted extension", "notes.txt", Unknown},
		{"no extension", "Makefile", Unknown},
		{"trailing dot", "weird.", Unknown},
		{"dot in directory only", "dir.py/README", Unknown},
		{"empty", "", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromFilename(tt.file))
		})
	}
}

func TestFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Label
	}{
		{"python def", "def f(): pass", "Python"},
		{"python print", "print('hi')", "Python"},
		{"javascript function", "function add(a, b) { return a + b }", "JavaScript"},
		{"javascript console", "console.log(1)", "JavaScript"},
		{"java class", "public class Foo {}", "Java"},
		{"java println mixed case", "System.out.println(1);", "Java"},
		{"cpp include", "#include <iostream>", "C++"},
		{"cpp std", "std::vector<int> v;", "C++"},
		{"python checked before javascript", "import os\nconst x = 1", "Python"},
		{"javascript checked before java", "public class A { var x; }", "JavaScript"},
		{"no match", "SELECT * FROM users;", Unknown},
		{"empty", "", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromContent(tt.content))
		})
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, Label("Go"), Detect("main.go", "def f(): pass"))
	assert.Equal(t, Label("Python"), Detect("", "def f(): pass"))
	assert.Equal(t, Unknown, Detect("notes.txt", "def f(): pass"))
}

func TestExtensions(t *testing.T) {
	exts := Extensions()
	assert.Len(t, exts, 16)
	assert.Contains(t, exts, "py")
	assert.Equal(t, exts, slices.Sorted(slices.Values(exts)))
}
