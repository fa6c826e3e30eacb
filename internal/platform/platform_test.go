package platform

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      Platform
	}{
		{"android", "Mozilla/5.0 (Linux; Android 10)", Android},
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 15_0)", IOS},
		{"ipad", "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)", IOS},
		{"ipod upper case", "MOZILLA/5.0 (IPOD TOUCH)", IOS},
		{"curl", "curl/7.64", Other},
		{"desktop", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)", Other},
		{"empty", "", Other},
		{"garbage", "\x00\xff;;", Other},
		{"android wins over ios markers", "Android iPhone emulator", Android},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.userAgent); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.userAgent, got, tt.want)
			}
		})
	}
}

func TestIsNative(t *testing.T) {
	if !Android.IsNative() || !IOS.IsNative() {
		t.Error("Expected android and ios to be native")
	}
	if Other.IsNative() {
		t.Error("Expected other not to be native")
	}
}
