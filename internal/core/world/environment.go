// Package world models the static play space: rectangular rooms that agents
// may occupy and rectangular obstacles that block movement and sight. The
// environment is immutable after construction and safe for concurrent reads.
package world

import (
	"math"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/geom"
)

// Environment is the static occupancy model. A point is walkable when it lies
// in at least one room and in no obstacle.
type Environment struct {
	rooms     []geom.Rect
	obstacles []geom.Rect
	bounds    geom.Rect
}

// New builds an environment from room and obstacle rectangles. The bounding
// box of all rooms becomes the environment extent.
func New(rooms, obstacles []geom.Rect) *Environment {
	e := &Environment{
		rooms:     append([]geom.Rect(nil), rooms...),
		obstacles: append([]geom.Rect(nil), obstacles...),
	}
	e.bounds = boundsOf(e.rooms)
	return e
}

func boundsOf(rects []geom.Rect) geom.Rect {
	if len(rects) == 0 {
		return geom.Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rects {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.X+r.W)
		maxY = math.Max(maxY, r.Y+r.H)
	}
	return geom.NewRect(minX, minY, maxX-minX, maxY-minY)
}

// Rooms returns the room rectangles. Callers must not mutate the slice.
func (e *Environment) Rooms() []geom.Rect { return e.rooms }

// Obstacles returns the obstacle rectangles. Callers must not mutate the slice.
func (e *Environment) Obstacles() []geom.Rect { return e.obstacles }

// Bounds returns the bounding box of all rooms.
func (e *Environment) Bounds() geom.Rect { return e.bounds }

// InRoom reports whether p lies inside any room.
func (e *Environment) InRoom(p geom.Vector2) bool {
	for _, r := range e.rooms {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

// Blocked reports whether p lies inside any obstacle.
func (e *Environment) Blocked(p geom.Vector2) bool {
	for _, o := range e.obstacles {
		if o.Contains(p) {
			return true
		}
	}
	return false
}

// Walkable reports whether an agent may occupy p.
func (e *Environment) Walkable(p geom.Vector2) bool {
	return e.InRoom(p) && !e.Blocked(p)
}

// NearObstacle reports whether any obstacle lies within radius of p, using
// obstacle rectangles expanded by the radius.
func (e *Environment) NearObstacle(p geom.Vector2, radius float64) bool {
	for _, o := range e.obstacles {
		if o.Expand(radius).Contains(p) {
			return true
		}
	}
	return false
}
