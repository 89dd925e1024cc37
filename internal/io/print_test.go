package io

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinter(t *testing.T) {
	t.Parallel()

	t.Run("info goes to stdout", func(t *testing.T) {
		t.Parallel()

		var out, errOut bytes.Buffer
		p := &Printer{Out: &out, Err: &errOut, NoColor: true}
		p.Infof("fetching %s", "cos-kernel-src-10323.104.0.tgz")

		if !strings.Contains(out.String(), "fetching cos-kernel-src-10323.104.0.tgz") {
			t.Errorf("stdout = %q", out.String())
		}
		if errOut.Len() != 0 {
			t.Errorf("stderr should be empty, got %q", errOut.String())
		}
	})

	t.Run("quiet suppresses info but not warnings", func(t *testing.T) {
		t.Parallel()

		var out, errOut bytes.Buffer
		p := &Printer{Out: &out, Err: &errOut, Quiet: true, NoColor: true}
		p.Infof("should not appear")
		p.Warningf("toolchain archive not found for this build")

		if out.Len() != 0 {
			t.Errorf("quiet mode should suppress info, got %q", out.String())
		}
		if !strings.Contains(errOut.String(), "WARNING: toolchain archive not found") {
			t.Errorf("stderr = %q", errOut.String())
		}
	})

	t.Run("debug disabled by default", func(t *testing.T) {
		t.Parallel()

		var errOut bytes.Buffer
		p := &Printer{Err: &errOut, NoColor: true}
		p.Debugf("gsutil ls gs://cos-tools")

		if errOut.Len() != 0 {
			t.Errorf("debug output should be suppressed, got %q", errOut.String())
		}

		p.Debug = true
		p.Debugf("gsutil ls gs://cos-tools")
		if !strings.Contains(errOut.String(), "gsutil ls gs://cos-tools") {
			t.Errorf("debug output missing, got %q", errOut.String())
		}
	})
}
