package deps

import (
	"fmt"
	"runtime"
	"strings"

	"breakstretch/internal/services"
)

const rubberbandURL = "https://breakfastquay.com/rubberband/"

// RubberbandRequirement describes the stretch engine binary.
func RubberbandRequirement(binary string) Requirement {
	if strings.TrimSpace(binary) == "" {
		binary = "rubberband"
	}
	return Requirement{
		Name:        "Rubber Band",
		Command:     binary,
		Description: "Tempo stretching without pitch change",
	}
}

// InstallHint returns the platform-specific install instruction for rubberband.
func InstallHint(goos string) string {
	switch goos {
	case "darwin":
		return "brew install rubberband"
	case "linux":
		return "sudo apt-get install rubberband-cli"
	case "windows":
		return "Download from " + rubberbandURL
	default:
		return "See " + rubberbandURL
	}
}

// CheckRubberband verifies the stretch engine is on PATH. The returned error
// carries install guidance for the running platform.
func CheckRubberband(binary string) (Status, error) {
	status := checkBinary(RubberbandRequirement(binary))
	if status.Available {
		return status, nil
	}
	return status, services.Wrap(
		services.ErrConfiguration,
		"",
		"",
		fmt.Sprintf("rubberband CLI not found. Install it with:\n  %s", InstallHint(runtime.GOOS)),
		nil,
	)
}
