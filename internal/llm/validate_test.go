package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateResponse(t *testing.T) {
	bounded := explanationSchema()
	bounded.Name = "topic-explanation-bounded"
	bounded.Definition["properties"].(map[string]any)["key_points"].(map[string]any)["minItems"] = 2

	tests := []struct {
		name    string
		schema  *Schema
		raw     string
		wantErr bool
	}{
		{"complete explanation", explanationSchema(),
			`{"explanation":"A circle is all points at one distance from a centre.","key_points":["radius","diameter"],"examples":["r=2 gives d=4"]}`, false},
		{"empty lists allowed", explanationSchema(),
			`{"explanation":"x","key_points":[],"examples":[]}`, false},
		{"missing examples", explanationSchema(),
			`{"explanation":"x","key_points":[]}`, true},
		{"explanation not a string", explanationSchema(),
			`{"explanation":3,"key_points":[],"examples":[]}`, true},
		{"key point not a string", explanationSchema(),
			`{"explanation":"x","key_points":[1],"examples":[]}`, true},
		{"extra field rejected", explanationSchema(),
			`{"explanation":"x","key_points":[],"examples":[],"quiz":"?"}`, true},
		{"too few key points", bounded,
			`{"explanation":"x","key_points":["one"],"examples":[]}`, true},
		{"sectioned text is not JSON", explanationSchema(),
			"EXPLANATION:\nSlope is rise over run.\n\nKEY POINTS:\n- steepness", true},
		{"empty reply", explanationSchema(), ``, true},
		{"no schema accepts anything", nil, `plain words`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.schema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var invalid *ErrInvalidResponse
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ErrInvalidResponse, got %T", err)
			}
			if string(invalid.Content) != tt.raw {
				t.Errorf("Content = %q, want the raw reply", invalid.Content)
			}
		})
	}
}

func TestFinish(t *testing.T) {
	req := Request{Schema: explanationSchema()}
	usage := Usage{InputTokens: 3, OutputTokens: 4, TotalTokens: 7}

	resp, err := finish(req, json.RawMessage(`{"explanation":"x","key_points":[],"examples":[]}`), usage, "m", StopEnd)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if resp.Model != "m" || resp.Usage != usage || resp.StopReason != StopEnd {
		t.Errorf("resp = %+v", resp)
	}

	_, err = finish(req, json.RawMessage(`{"explanation":"x"`), usage, "m", StopEnd)
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Errorf("bad JSON at a normal stop: got %T, want ErrInvalidResponse", err)
	}

	_, err = finish(req, json.RawMessage(`{"explanation":"x"`), usage, "m", StopMaxTokens)
	var truncated *ErrMaxTokensExceeded
	if !errors.As(err, &truncated) {
		t.Errorf("bad JSON at the token limit: got %T, want ErrMaxTokensExceeded", err)
	}

	resp, err = finish(Request{}, json.RawMessage(`cut off mid`), usage, "m", StopMaxTokens)
	if err != nil || resp.StopReason != StopMaxTokens {
		t.Errorf("plain text at the token limit should pass through: %v", err)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{429, "rate"},
		{401, "auth"},
		{403, "auth"},
		{500, "unavailable"},
		{400, "unavailable"},
		{0, "unavailable"},
	}
	for _, tt := range tests {
		err := classifyStatus(ProviderOllama, tt.status, errors.New("boom"))
		var got string
		switch err.(type) {
		case *ErrRateLimit:
			got = "rate"
		case *ErrAuth:
			got = "auth"
		case *ErrProviderUnavailable:
			got = "unavailable"
		}
		if got != tt.want {
			t.Errorf("classifyStatus(%d) = %T, want %s", tt.status, err, tt.want)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := map[string]int{"": 0, "12": 12, "-1": 0, "Wed, 21 Oct 2026 07:28:00 GMT": 0}
	for in, secs := range tests {
		if got := parseRetryAfter(in); got.Seconds() != float64(secs) {
			t.Errorf("parseRetryAfter(%q) = %s, want %ds", in, got, secs)
		}
	}
}
