package mathutil

import "math"

var (
	// AxisCorrection turns the file's Z-up space into the renderer's Y-up.
	AxisCorrection = RotX(-math.Pi / 2)

	// PreviewView is the three-quarter camera: pitch 20°, then yaw -35°.
	PreviewView = Mat3Mul(RotX(Radians(20)), RotY(Radians(-35)))
)
