package validation

import (
	"testing"

	"github.com/kbukum/diarsplit/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New().Required("name", "")
	if !v.HasErrors() {
		t.Fatal("expected error for empty value")
	}
	if v.Errors()[0].Field != "name" {
		t.Errorf("expected field 'name', got %s", v.Errors()[0].Field)
	}

	if New().Required("name", "   ").Err() == nil {
		t.Error("expected whitespace to be rejected")
	}
	if err := New().Required("name", "x").Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidatorMediaFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{"wav", "session.wav", false},
		{"upper case mp4", "SESSION.MP4", false},
		{"webm", "call.webm", false},
		{"csv rejected", "table.csv", true},
		{"no extension", "media", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().MediaFile("media", tt.filename).Err()
			if (err != nil) != tt.wantErr {
				t.Errorf("MediaFile(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
			}
		})
	}
}

func TestValidatorCSVFile(t *testing.T) {
	if err := New().CSVFile("diarization", "turns.CSV").Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := New().CSVFile("diarization", "turns.tsv").Err(); err == nil {
		t.Error("expected error for .tsv")
	}
}

func TestValidatorSizes(t *testing.T) {
	if !New().MaxSize("media", 11, 10).HasErrors() {
		t.Error("expected size above limit to fail")
	}
	if New().MaxSize("media", 11, 0).HasErrors() {
		t.Error("expected zero limit to disable the check")
	}
	if !New().NonEmptyFile("media", 0).HasErrors() {
		t.Error("expected empty file to fail")
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"audio", "video"}
	if New().OneOf("profile", "audio", allowed).HasErrors() {
		t.Error("expected allowed value to pass")
	}
	if New().OneOf("profile", "", allowed).HasErrors() {
		t.Error("expected empty value to be skipped")
	}
	if !New().OneOf("profile", "gif", allowed).HasErrors() {
		t.Error("expected disallowed value to fail")
	}
}

func TestValidatorCollectsAllFields(t *testing.T) {
	appErr := New().
		MediaFile("media", "notes.txt").
		CSVFile("diarization", "turns.json").
		Custom(false, "profile", "is unsupported").
		Validate()
	if appErr == nil {
		t.Fatal("expected an error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 3 {
		t.Fatalf("expected 3 field errors, got %v", appErr.Details["fields"])
	}
}

type splitRequest struct {
	MediaName string `json:"media" validate:"required,media_file"`
	CSVName   string `json:"diarization" validate:"required,csv_file"`
	Profile   string `json:"profile" validate:"omitempty,profile"`
}

func TestStructValidate(t *testing.T) {
	tests := []struct {
		name       string
		req        splitRequest
		wantFields []string
	}{
		{"valid", splitRequest{"a.mp3", "b.csv", "mp3"}, nil},
		{"valid without profile", splitRequest{"a.mov", "b.csv", ""}, nil},
		{"bad media", splitRequest{"a.txt", "b.csv", ""}, []string{"media"}},
		{"missing both", splitRequest{}, []string{"media", "diarization"}},
		{"bad profile", splitRequest{"a.wav", "b.csv", "gif"}, []string{"profile"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %v", err)
			}
			fields := appErr.Details["fields"].([]FieldError)
			if len(fields) != len(tt.wantFields) {
				t.Fatalf("expected %d fields, got %+v", len(tt.wantFields), fields)
			}
			for i, f := range tt.wantFields {
				if fields[i].Field != f {
					t.Errorf("field %d: expected %s, got %s", i, f, fields[i].Field)
				}
			}
		})
	}
}

type limits struct {
	TempDir string `mapstructure:"temp_dir"`
	Backend string `mapstructure:"backend" validate:"oneof=auto ffmpeg wav"`
	Retries int    `mapstructure:"retries" validate:"gte=0"`
}

func TestStructValidate_MapstructureNames(t *testing.T) {
	err := Validate(limits{Backend: "sox", Retries: -1})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	fields := appErr.Details["fields"].([]FieldError)
	if len(fields) != 2 || fields[0].Field != "backend" || fields[1].Field != "retries" {
		t.Errorf("unexpected fields: %+v", fields)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"MediaName": "media_name",
		"id":        "id",
		"TempDir":   "temp_dir",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
