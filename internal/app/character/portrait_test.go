package character

import "testing"

func TestValidatePortraitSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int64
		wantErr bool
	}{
		{"zero", 0, true},
		{"negative", -1, true},
		{"one byte", 1, false},
		{"at limit", MaxPortraitSize, false},
		{"over limit", MaxPortraitSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePortraitSize(tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePortraitSize(%d) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePortraitType(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		wantErr  bool
	}{
		{"jpeg", "portrait.jpg", "image/jpeg", false},
		{"jpeg alt ext", "portrait.jpeg", "image/jpeg", false},
		{"png uppercase mime", "portrait.png", "IMAGE/PNG", false},
		{"webp", "portrait.webp", "image/webp", false},
		{"gif", "portrait.gif", "image/gif", false},
		{"disallowed mime", "portrait.svg", "image/svg+xml", true},
		{"mime ext mismatch", "portrait.png", "image/jpeg", true},
		{"no extension", "portrait", "image/png", true},
		{"unknown extension", "portrait.bmp", "image/png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePortraitType(tt.fileName, tt.mimeType)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePortraitType(%q, %q) error = %v, wantErr %v", tt.fileName, tt.mimeType, err, tt.wantErr)
			}
		})
	}
}
