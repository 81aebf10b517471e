package joist

import (
	"encoding/json"
	"fmt"
)

// gestureStep represents a single action in a gesture script.
type gestureStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Steps  int     `json:"steps,omitempty"`
}

// gestureScriptFile is the top-level JSON structure for a gesture script.
type gestureScriptFile struct {
	Steps []gestureStep `json:"steps"`
}

// gestureActions are the step verbs a script may use. click and drag are
// whole gestures; down, move, up and cancel are raw events for scripting
// partial or aborted gestures.
var gestureActions = map[string]bool{
	"click":  true,
	"drag":   true,
	"down":   true,
	"move":   true,
	"up":     true,
	"cancel": true,
}

// GestureScript replays a recorded pointer session against a select tool,
// for headless regression tests of editing flows. Coordinates are screen
// pixels, interpreted through the tool's viewport at replay time.
type GestureScript struct {
	steps []gestureStep
}

// LoadGestureScript parses a JSON gesture script. Scripts are validated up
// front: an empty step list or an unknown action is a parse error, not a
// replay surprise.
func LoadGestureScript(jsonData []byte) (*GestureScript, error) {
	var script gestureScriptFile
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse gesture script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse gesture script: no steps")
	}
	for i, st := range script.Steps {
		if !gestureActions[st.Action] {
			return nil, fmt.Errorf("parse gesture script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &GestureScript{steps: script.Steps}, nil
}

// Len returns the number of steps in the script.
func (sc *GestureScript) Len() int {
	return len(sc.steps)
}

// Run plays every step against the tool in order. Steps execute
// synchronously; commits surface through the tool's callbacks exactly as
// they would for live input.
func (sc *GestureScript) Run(tool *SelectTool) {
	for _, st := range sc.steps {
		switch st.Action {
		case "click":
			tool.InjectClick(V(st.X, st.Y))
		case "drag":
			tool.InjectDrag(V(st.FromX, st.FromY), V(st.ToX, st.ToY), st.Steps)
		case "down":
			pt := V(st.X, st.Y)
			tool.PointerDown(pt, tool.HitTest(pt))
		case "move":
			tool.PointerMove(V(st.X, st.Y))
		case "up":
			tool.PointerUp()
		case "cancel":
			tool.Cancel()
		}
	}
}
