package common

// Virtual key codes used by the viewer bindings.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyB     = 66  // toggle backside rendering
	KeyP     = 80  // toggle the raw physical material
	KeyR     = 82  // reset parameters to their defaults
	KeyT     = 84  // toggle the transmission sampler
	KeySpace = 32  // pause auto-rotation
	KeyEsc   = 256 // quit (GLFW)
)
