package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryForPath(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, "javascript", r.ForPath("src/index.ts").Language())
	assert.Equal(t, "javascript", r.ForPath("src/App.jsx").Language())
	assert.Equal(t, "go", r.ForPath("main.go").Language())
	assert.Equal(t, "python", r.ForPath("app.py").Language())
	assert.Equal(t, "rust", r.ForPath("src/lib.rs").Language())
	assert.Nil(t, r.ForPath("README.md"))
	assert.Nil(t, r.ForPath("Makefile"))
}

func TestJavaScriptImports(t *testing.T) {
	ext := newJavaScriptExtractor()
	src := `
import React from 'react';
import { useState, useEffect } from 'react';
import './styles.css';
const fs = require('fs');
const lazy = import('./lazy');
export { helper } from './util';
`
	got := ext.Extract(src)
	assert.ElementsMatch(t, []string{"react", "./styles.css", "fs", "./lazy", "./util"}, got.Imports)
}

func TestJavaScriptExports(t *testing.T) {
	ext := newJavaScriptExtractor()
	src := `
export default class App {}
export function render() {}
export const config = {};
export interface Props {}
export { first, second as renamed, default };
module.exports = legacy;
exports.helper = () => {};
`
	got := ext.Extract(src)
	assert.Contains(t, got.Exports, "App")
	assert.Contains(t, got.Exports, "render")
	assert.Contains(t, got.Exports, "config")
	assert.Contains(t, got.Exports, "Props")
	assert.Contains(t, got.Exports, "first")
	assert.Contains(t, got.Exports, "renamed")
	assert.NotContains(t, got.Exports, "second")
	assert.NotContains(t, got.Exports, "default")
	assert.Contains(t, got.Exports, "legacy")
	assert.Contains(t, got.Exports, "helper")
}

func TestGoExtractor(t *testing.T) {
	ext := newGoExtractor()
	src := `package main

import "fmt"

import (
	"context"
	xerrors "errors"
)

func Exported() {}
func internal() {}
func (s *Server) Method() {}

type Config struct{}

const MaxSize = 10
var Version = "1.0"
`
	got := ext.Extract(src)
	assert.ElementsMatch(t, []string{"fmt", "context", "errors"}, got.Imports)
	assert.Contains(t, got.Exports, "Exported")
	assert.Contains(t, got.Exports, "Method")
	assert.Contains(t, got.Exports, "Config")
	assert.Contains(t, got.Exports, "MaxSize")
	assert.Contains(t, got.Exports, "Version")
	assert.NotContains(t, got.Exports, "internal")
}

func TestPythonExtractor(t *testing.T) {
	ext := newPythonExtractor()
	src := `import os
import os.path
from collections import defaultdict

def process(data):
    pass

class Handler:
    def method(self):
        pass

MAX_RETRIES = 3
`
	got := ext.Extract(src)
	assert.ElementsMatch(t, []string{"os", "os.path", "collections"}, got.Imports)
	assert.Contains(t, got.Exports, "process")
	assert.Contains(t, got.Exports, "Handler")
	assert.Contains(t, got.Exports, "MAX_RETRIES")
	assert.NotContains(t, got.Exports, "method", "indented defs are not module-level")
}

func TestRustExtractor(t *testing.T) {
	ext := newRustExtractor()
	src := `use std::collections::HashMap;
mod parser;

pub fn run() {}
pub struct Engine {}
fn private_helper() {}
`
	got := ext.Extract(src)
	assert.Contains(t, got.Imports, "std::collections::HashMap")
	assert.Contains(t, got.Imports, "parser")
	assert.ElementsMatch(t, []string{"run", "Engine"}, got.Exports)
}

func TestCExtractorQuotedIncludesOnly(t *testing.T) {
	ext := newCExtractor()
	src := `#include <stdio.h>
#include "local.h"
#define BUFFER_SIZE 1024
`
	got := ext.Extract(src)
	assert.Equal(t, []string{"local.h"}, got.Imports)
	assert.Contains(t, got.Exports, "BUFFER_SIZE")
}

func TestExtractionDeduplicates(t *testing.T) {
	ext := newJavaScriptExtractor()
	src := `
import { a } from './x';
import { b } from './x';
const again = require('./x');
`
	got := ext.Extract(src)
	assert.Equal(t, []string{"./x"}, got.Imports)
}

func TestEmptyContent(t *testing.T) {
	for _, path := range []string{"a.ts", "a.go", "a.py", "a.rs", "a.java", "a.rb", "a.php", "a.cs", "a.c"} {
		ext := NewRegistry().ForPath(path)
		require.NotNil(t, ext, path)
		got := ext.Extract("")
		assert.Empty(t, got.Imports, path)
		assert.Empty(t, got.Exports, path)
	}
}
