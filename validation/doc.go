// Package validation checks inputs at the diarsplit edges: upload forms,
// CLI arguments and configuration sections.
//
// # Struct Tag Validation
//
// Besides the standard validator tags, media_file, csv_file and profile
// check upload names and profile keys:
//
//	type SplitRequest struct {
//	    MediaName string `json:"media" validate:"required,media_file"`
//	    Profile   string `json:"profile" validate:"omitempty,profile"`
//	}
//	err := validation.Validate(req)
//
// # Programmatic Validation
//
//	err := validation.New().
//	    MediaFile("media", name).
//	    CSVFile("diarization", csvName).
//	    Err()
//
// Both forms return an INVALID_INPUT AppError listing every failing field.
package validation
