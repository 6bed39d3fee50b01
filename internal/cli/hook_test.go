package cli

import (
	"strings"
	"testing"
)

func TestGenerateHookScript(t *testing.T) {
	script := generateHookScript()

	if !strings.Contains(script, hookMarkerStart) {
		t.Error("Script missing start marker")
	}
	if !strings.Contains(script, hookMarkerEnd) {
		t.Error("Script missing end marker")
	}
	if !strings.Contains(script, "mallard scan\n") {
		t.Error("Script missing the scan command")
	}
	if !strings.Contains(script, "MALLARD_EXIT=$?") {
		t.Error("Script missing exit code capture")
	}
	if !strings.Contains(script, "exit 1") {
		t.Error("Script missing exit 1 for blocked commits")
	}
	if !strings.Contains(script, "allowing commit") {
		t.Error("Script missing fail-open behavior for errors")
	}
}

func TestReplaceHookSection_NoExisting(t *testing.T) {
	existing := "#!/bin/sh\nsome-other-hook\n"
	section := generateHookScript()

	result := replaceHookSection(existing, section)

	if !strings.HasPrefix(result, "#!/bin/sh\nsome-other-hook\n") {
		t.Error("Existing content should be preserved")
	}
	if !strings.Contains(result, hookMarkerStart) {
		t.Error("New section should be appended")
	}
}

func TestReplaceHookSection_ExistingSection(t *testing.T) {
	section := generateHookScript()
	existing := "#!/bin/sh\nbefore\n" + section + "after\n"

	result := replaceHookSection(existing, section)

	if !strings.Contains(result, "before") {
		t.Error("Content before mallard section should be preserved")
	}
	if !strings.Contains(result, "after") {
		t.Error("Content after mallard section should be preserved")
	}
	if strings.Count(result, hookMarkerStart) != 1 {
		t.Error("Section should be replaced, not duplicated")
	}
}

func TestRemoveHookSection(t *testing.T) {
	section := generateHookScript()
	existing := "#!/bin/sh\nbefore\n" + section + "after\n"

	result := removeHookSection(existing)

	if strings.Contains(result, hookMarkerStart) {
		t.Error("Mallard section should be removed")
	}
	if !strings.Contains(result, "before") {
		t.Error("Content before should be preserved")
	}
	if !strings.Contains(result, "after") {
		t.Error("Content after should be preserved")
	}
}

func TestRemoveHookSection_NoSection(t *testing.T) {
	existing := "#!/bin/sh\nsome-hook\n"
	result := removeHookSection(existing)
	if result != existing {
		t.Error("Content without mallard section should be unchanged")
	}
}

func TestReplaceHookSection_NoTrailingNewline(t *testing.T) {
	existing := "#!/bin/sh\nsome-hook"
	section := generateHookScript()

	result := replaceHookSection(existing, section)

	if !strings.Contains(result, "some-hook") {
		t.Error("Existing content should be preserved")
	}
	if !strings.Contains(result, hookMarkerStart) {
		t.Error("Section should be appended")
	}
}
