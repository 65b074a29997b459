package meshing

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Face identifies one of the six block faces.
type Face int

const (
	FaceRight  Face = iota // +X
	FaceLeft               // -X
	FaceTop                // +Y
	FaceBottom             // -Y
	FaceFront              // +Z
	FaceBack               // -Z
)

// Faces lists every face in emission order.
var Faces = [6]Face{FaceRight, FaceLeft, FaceTop, FaceBottom, FaceFront, FaceBack}

type faceDef struct {
	// step to the neighbouring cell
	dx, dy, dz int
	// axis the face is perpendicular to (0=x, 1=y, 2=z)
	axis   int
	normal mgl32.Vec3
	// unit-cube corners, counter-clockwise seen from outside the block
	corners [4]mgl32.Vec3
	// axes the texture s and t coordinates run along
	sAxis, tAxis int
}

var faceDefs = [6]faceDef{
	FaceRight: {
		dx: 1, axis: 0,
		normal: mgl32.Vec3{1, 0, 0},
		corners: [4]mgl32.Vec3{
			{1, 0, 0},
			{1, 1, 0},
			{1, 1, 1},
			{1, 0, 1},
		},
	},
	FaceLeft: {
		dx: -1, axis: 0,
		normal: mgl32.Vec3{-1, 0, 0},
		corners: [4]mgl32.Vec3{
			{0, 0, 1},
			{0, 1, 1},
			{0, 1, 0},
			{0, 0, 0},
		},
	},
	FaceTop: {
		dy: 1, axis: 1,
		normal: mgl32.Vec3{0, 1, 0},
		corners: [4]mgl32.Vec3{
			{0, 1, 1},
			{1, 1, 1},
			{1, 1, 0},
			{0, 1, 0},
		},
	},
	FaceBottom: {
		dy: -1, axis: 1,
		normal: mgl32.Vec3{0, -1, 0},
		corners: [4]mgl32.Vec3{
			{0, 0, 0},
			{1, 0, 0},
			{1, 0, 1},
			{0, 0, 1},
		},
	},
	FaceFront: {
		dz: 1, axis: 2,
		normal: mgl32.Vec3{0, 0, 1},
		corners: [4]mgl32.Vec3{
			{0, 0, 1},
			{1, 0, 1},
			{1, 1, 1},
			{0, 1, 1},
		},
	},
	FaceBack: {
		dz: -1, axis: 2,
		normal: mgl32.Vec3{0, 0, -1},
		corners: [4]mgl32.Vec3{
			{1, 0, 0},
			{0, 0, 0},
			{0, 1, 0},
			{1, 1, 0},
		},
	},
}

// faceUVs is the texture quad shared by every face.
var faceUVs = [4]mgl32.Vec2{
	{0, 0},
	{1, 0},
	{1, 1},
	{0, 1},
}

func init() {
	for i := range faceDefs {
		fd := &faceDefs[i]
		for k := range 3 {
			if fd.corners[1][k] != fd.corners[0][k] {
				fd.sAxis = k
			}
			if fd.corners[3][k] != fd.corners[0][k] {
				fd.tAxis = k
			}
		}
	}
}

// Normal returns the outward unit normal of f.
func (f Face) Normal() mgl32.Vec3 {
	return faceDefs[f].normal
}

func (f Face) String() string {
	switch f {
	case FaceRight:
		return "+x"
	case FaceLeft:
		return "-x"
	case FaceTop:
		return "+y"
	case FaceBottom:
		return "-y"
	case FaceFront:
		return "+z"
	case FaceBack:
		return "-z"
	default:
		return "?"
	}
}
