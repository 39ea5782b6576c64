// Copyright (c) 2023, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package logger

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		want    zapcore.Level
		wantErr bool
	}{
		{name: "Debug", s: "debug", want: zapcore.DebugLevel},
		{name: "Empty", s: "", want: zapcore.InfoLevel},
		{name: "Upper", s: " WARN ", want: zapcore.WarnLevel},
		{name: "Warning", s: "warning", want: zapcore.WarnLevel},
		{name: "Error", s: "error", want: zapcore.ErrorLevel},
		{name: "Unknown", s: "loud", want: zapcore.InfoLevel, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("got error %v, wantErr %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("got level %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	var b bytes.Buffer

	l := New(&b, zapcore.WarnLevel)
	l.Info("hidden")
	l.Warnw("shown", "tag", "v1.2.3")

	out := b.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry written at warn level: %q", out)
	}

	if !strings.HasPrefix(out, "WARN shown ") {
		t.Errorf("unexpected entry prefix: %q", out)
	}

	if !strings.Contains(out, "v1.2.3") {
		t.Errorf("field missing from entry: %q", out)
	}
}
