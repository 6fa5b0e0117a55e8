package langdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_Dart(t *testing.T) {
	code := `
import 'package:flutter/material.dart';

class HomePage extends StatelessWidget {
  @override
  Widget build(BuildContext context) {
    return Scaffold(body: Text('hello'));
  }
}
`
	assert.Equal(t, LanguageDart, Detect(code))
}

func TestDetect_DartBeforeGenericClassSyntax(t *testing.T) {
	// Dart classes look like TS/JS classes; the build-method signature must
	// win before any curly-brace heuristic fires.
	code := `
class Counter extends State<CounterWidget> {
  Widget build(BuildContext context) {
    return Container();
  }
}
`
	assert.Equal(t, LanguageDart, Detect(code))
}

func TestDetect_Python(t *testing.T) {
	code := `
import os

def get_user(user_id):
    if user_id is None:
        return None
    elif user_id < 0:
        raise ValueError("bad id")
    return db.fetch(user_id)
`
	assert.Equal(t, LanguagePython, Detect(code))
}

func TestDetect_PythonClassWithSelf(t *testing.T) {
	code := `
class UserStore:
    def __init__(self):
        self.users = {}
`
	assert.Equal(t, LanguagePython, Detect(code))
}

func TestDetect_TypeScript(t *testing.T) {
	code := `
interface User {
  id: number;
  name: string;
}

export function getUser(id: number): User {
  return { id, name: "x" };
}
`
	assert.Equal(t, LanguageTypeScript, Detect(code))
}

func TestDetect_JavaScript(t *testing.T) {
	code := `
function getUser(id) {
  const user = store[id];
  return user;
}
module.exports = { getUser };
`
	assert.Equal(t, LanguageJavaScript, Detect(code))
}

func TestDetect_Unknown(t *testing.T) {
	assert.Equal(t, LanguageUnknown, Detect("some plain text with no code markers"))
	assert.Equal(t, LanguageUnknown, Detect(""))
}

func TestDetect_Deterministic(t *testing.T) {
	code := `const f = (x) => x * 2; let y = f(2);`
	first := Detect(code)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Detect(code))
	}
}

func TestFromExtension(t *testing.T) {
	assert.Equal(t, LanguageTypeScript, FromExtension(".tsx"))
	assert.Equal(t, LanguageJavaScript, FromExtension(".jsx"))
	assert.Equal(t, LanguagePython, FromExtension(".py"))
	assert.Equal(t, LanguageDart, FromExtension(".dart"))
	assert.Equal(t, LanguageUnknown, FromExtension(".rb"))
}
