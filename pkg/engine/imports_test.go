package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctxpack/ctxpack/pkg/logging"
)

func TestScriptExtractorPatterns(t *testing.T) {
	content := `
import React from "react";
import { helper } from "./utils";
import "./styles.css";
import type { T } from '../types';
export { thing } from "./thing";
const legacy = require("./legacy");
import absolute from "/abs/path";
import pkg from "some-package";
`
	refs := ScriptExtractor{}.Extract(content)

	assert.Equal(t, []string{"./utils", "./styles.css", "../types", "./thing", "./legacy"}, refs)
}

func TestScriptExtractorDeduplicates(t *testing.T) {
	content := `
import a from "./utils";
import b from "./utils";
const c = require("./utils");
`
	refs := ScriptExtractor{}.Extract(content)
	assert.Equal(t, []string{"./utils"}, refs)
}

func writeFixture(t *testing.T, root, rel, content string) Candidate {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	info, err := os.Stat(path)
	require.NoError(t, err)
	return Candidate{
		Path:      path,
		RelPath:   rel,
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}
}

func TestAugmentResolvesWithExtension(t *testing.T) {
	root := t.TempDir()
	page := writeFixture(t, root, "page.tsx", `import { util } from "./utils";`)
	writeFixture(t, root, "utils.ts", "export const util = 1;")

	augmenter := NewAugmenter(root, logging.NewDisabledLogger())
	out := augmenter.Augment([]Candidate{page})

	require.Len(t, out, 2)
	assert.Equal(t, "utils.ts", out[1].RelPath)
	assert.Equal(t, OriginImport, out[1].Origin)
	assert.Equal(t, OriginDirect, out[0].Origin)
}

func TestAugmentResolutionOrder(t *testing.T) {
	root := t.TempDir()
	page := writeFixture(t, root, "page.tsx", `import a from "./a"; import b from "./b";`)
	// ./a resolves via extension, ./b only via directory index file.
	writeFixture(t, root, "a.ts", "export default 1;")
	writeFixture(t, root, "b/index.js", "module.exports = 2;")

	augmenter := NewAugmenter(root, logging.NewDisabledLogger())
	out := augmenter.Augment([]Candidate{page})

	require.Len(t, out, 3)
	assert.Equal(t, "a.ts", out[1].RelPath)
	assert.Equal(t, "b/index.js", out[2].RelPath)
}

func TestAugmentPrefersLiteralPath(t *testing.T) {
	root := t.TempDir()
	page := writeFixture(t, root, "page.tsx", `import "./styles.css";`)
	writeFixture(t, root, "styles.css", "body {}")

	augmenter := NewAugmenter(root, logging.NewDisabledLogger())
	out := augmenter.Augment([]Candidate{page})

	require.Len(t, out, 2)
	assert.Equal(t, "styles.css", out[1].RelPath)
}

func TestAugmentIsNonTransitive(t *testing.T) {
	// page.tsx imports ./utils, and utils.ts itself imports ./deeper.
	// The deeper import must not be followed in the same run.
	root := t.TempDir()
	page := writeFixture(t, root, "page.tsx", `import { util } from "./utils";`)
	writeFixture(t, root, "utils.ts", `import { deep } from "./deeper";`)
	writeFixture(t, root, "deeper.ts", "export const deep = 1;")

	augmenter := NewAugmenter(root, logging.NewDisabledLogger())
	out := augmenter.Augment([]Candidate{page})

	require.Len(t, out, 2)
	assert.Equal(t, "utils.ts", out[1].RelPath)
}

func TestAugmentDoesNotReAddPresentFiles(t *testing.T) {
	root := t.TempDir()
	page := writeFixture(t, root, "page.tsx", `import { util } from "./utils";`)
	utils := writeFixture(t, root, "utils.ts", "export const util = 1;")

	augmenter := NewAugmenter(root, logging.NewDisabledLogger())
	out := augmenter.Augment([]Candidate{page, utils})

	assert.Len(t, out, 2)
}

func TestAugmentDropsUnresolvableSilently(t *testing.T) {
	root := t.TempDir()
	page := writeFixture(t, root, "page.tsx", `import missing from "./nowhere";`)

	augmenter := NewAugmenter(root, logging.NewDisabledLogger())
	out := augmenter.Augment([]Candidate{page})

	assert.Len(t, out, 1)
}

func TestAugmentSkipsNonScriptFiles(t *testing.T) {
	root := t.TempDir()
	readme := writeFixture(t, root, "README.md", `see import "./utils" for details`)
	writeFixture(t, root, "utils.ts", "export const util = 1;")

	augmenter := NewAugmenter(root, logging.NewDisabledLogger())
	out := augmenter.Augment([]Candidate{readme})

	assert.Len(t, out, 1)
}

func TestAugmentRelativeToImportingFile(t *testing.T) {
	root := t.TempDir()
	page := writeFixture(t, root, "src/pages/page.tsx", `import { util } from "../lib/utils";`)
	writeFixture(t, root, "src/lib/utils.ts", "export const util = 1;")

	augmenter := NewAugmenter(root, logging.NewDisabledLogger())
	out := augmenter.Augment([]Candidate{page})

	require.Len(t, out, 2)
	assert.Equal(t, "src/lib/utils.ts", out[1].RelPath)
}
