package scene

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Sidremus/cge-blender/pkg/math"
)

// sceneDoc is the YAML document format for scene files.
type sceneDoc struct {
	FrameStart int         `yaml:"frame_start"`
	FrameEnd   int         `yaml:"frame_end"`
	FPS        int         `yaml:"fps"`
	Objects    []objectDoc `yaml:"objects"`
	Actions    []actionDoc `yaml:"actions"`
}

type objectDoc struct {
	Name     string      `yaml:"name"`
	Type     string      `yaml:"type"`
	Visible  *bool       `yaml:"visible"`
	Selected bool        `yaml:"selected"`
	Parent   string      `yaml:"parent"`
	Location [3]float64  `yaml:"location"`
	Rotation [3]float64  `yaml:"rotation"`
	Scale    *[3]float64 `yaml:"scale"`
	BoundMin *[3]float64 `yaml:"bound_min"`
	BoundMax *[3]float64 `yaml:"bound_max"`
	Action   string      `yaml:"action"`
	Emitter  *emitterDoc `yaml:"emitter"`
}

type emitterDoc struct {
	Count   int        `yaml:"count"`
	Spacing [3]float64 `yaml:"spacing"`
}

type actionDoc struct {
	Name     string                   `yaml:"name"`
	FakeUser bool                     `yaml:"fake_user"`
	Channels map[string]channelSetDoc `yaml:"channels"`
}

type channelSetDoc struct {
	Location []keyDoc `yaml:"location"`
	Rotation []keyDoc `yaml:"rotation"`
	Scale    []keyDoc `yaml:"scale"`
}

type keyDoc struct {
	Frame float64    `yaml:"frame"`
	Value [3]float64 `yaml:"value"`
}

// Load reads a scene document from a YAML file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading scene from %s: %w", path, err)
	}
	return sc, nil
}

// Parse builds a Scene from YAML document bytes. The scene's pose is
// evaluated at its start frame before returning.
func Parse(data []byte) (*Scene, error) {
	var doc sceneDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	sc := &Scene{
		FrameStart: doc.FrameStart,
		FrameEnd:   doc.FrameEnd,
		FPS:        doc.FPS,
	}
	if sc.FPS == 0 {
		sc.FPS = 25
	}

	for _, ad := range doc.Actions {
		action, err := buildAction(ad)
		if err != nil {
			return nil, err
		}
		sc.Actions = append(sc.Actions, action)
	}

	for _, od := range doc.Objects {
		obj, err := buildObject(od, sc)
		if err != nil {
			return nil, err
		}
		if sc.Object(obj.Name) != nil {
			return nil, fmt.Errorf("duplicate object name %q", obj.Name)
		}
		sc.Objects = append(sc.Objects, obj)
	}

	// Link parents after all objects exist.
	for i, od := range doc.Objects {
		if od.Parent == "" {
			continue
		}
		parent := sc.Object(od.Parent)
		if parent == nil {
			return nil, fmt.Errorf("object %q references unknown parent %q", od.Name, od.Parent)
		}
		sc.Objects[i].Parent = parent
	}

	sc.SetFrame(sc.FrameStart)
	return sc, nil
}

func buildObject(od objectDoc, sc *Scene) (*Object, error) {
	if od.Name == "" {
		return nil, fmt.Errorf("object without a name")
	}

	typ, err := parseObjectType(od.Type)
	if err != nil {
		return nil, fmt.Errorf("object %q: %w", od.Name, err)
	}

	obj := &Object{
		Name:     od.Name,
		Type:     typ,
		Visible:  od.Visible == nil || *od.Visible,
		Selected: od.Selected,
	}

	obj.Base.Location = vec3(od.Location)
	obj.Base.Rotation = vec3(od.Rotation)
	obj.Base.Scale = math.Vec3{X: 1, Y: 1, Z: 1}
	if od.Scale != nil {
		obj.Base.Scale = vec3(*od.Scale)
	}
	obj.Pose = obj.Base

	if od.BoundMin != nil && od.BoundMax != nil {
		obj.SetBound(vec3(*od.BoundMin), vec3(*od.BoundMax))
	} else {
		obj.SetBoundUninitialized()
	}

	if od.Action != "" {
		action := sc.Action(od.Action)
		if action == nil {
			return nil, fmt.Errorf("object %q references unknown action %q", od.Name, od.Action)
		}
		obj.Anim = &AnimationData{Action: action}
	}

	if od.Emitter != nil {
		if od.Emitter.Count < 0 {
			return nil, fmt.Errorf("object %q: emitter count must be non-negative", od.Name)
		}
		obj.Emitter = &Emitter{
			Count:   od.Emitter.Count,
			Spacing: vec3(od.Emitter.Spacing),
		}
	}

	return obj, nil
}

func buildAction(ad actionDoc) (*Action, error) {
	if ad.Name == "" {
		return nil, fmt.Errorf("action without a name")
	}
	action := &Action{
		Name:     ad.Name,
		FakeUser: ad.FakeUser,
		Channels: make(map[string]*ChannelSet),
	}
	for objName, csd := range ad.Channels {
		action.Channels[objName] = &ChannelSet{
			Location: buildChannel(csd.Location),
			Rotation: buildChannel(csd.Rotation),
			Scale:    buildChannel(csd.Scale),
		}
	}
	return action, nil
}

func buildChannel(keys []keyDoc) Channel {
	if len(keys) == 0 {
		return nil
	}
	ch := make(Channel, len(keys))
	for i, k := range keys {
		ch[i] = Keyframe{Frame: k.Frame, Value: vec3(k.Value)}
	}
	sort.Slice(ch, func(i, j int) bool { return ch[i].Frame < ch[j].Frame })
	return ch
}

func parseObjectType(s string) (ObjectType, error) {
	switch s {
	case "", "mesh":
		return TypeMesh, nil
	case "curve":
		return TypeCurve, nil
	case "armature":
		return TypeArmature, nil
	case "lattice":
		return TypeLattice, nil
	case "empty":
		return TypeEmpty, nil
	case "camera":
		return TypeCamera, nil
	case "light", "lamp":
		return TypeLight, nil
	case "speaker":
		return TypeSpeaker, nil
	}
	return "", fmt.Errorf("unknown object type %q", s)
}

func vec3(v [3]float64) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
