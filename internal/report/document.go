package report

import (
	"github.com/powerswitch/led-commander-16-2/internal/ledfile"
)

// Document is the exported view of a configuration. Only populated scenes,
// assigned DMX addresses and non-empty chases are listed.
type Document struct {
	Names      []Name              `json:"names" yaml:"names"`
	Patch      []PatchEntry        `json:"patch" yaml:"patch"`
	Scenes     []SceneView         `json:"scenes" yaml:"scenes"`
	ChaseSteps []SceneView         `json:"chaseSteps" yaml:"chaseSteps"`
	Chases     []ChaseView         `json:"chases" yaml:"chases"`
	Dimmers    []DimmerView        `json:"virtualDimmers" yaml:"virtualDimmers"`
	Deviations []ledfile.Deviation `json:"deviations,omitempty" yaml:"deviations,omitempty"`
}

type Name struct {
	ID      int    `json:"id" yaml:"id"`
	Default string `json:"default" yaml:"default"`
	Custom  string `json:"custom,omitempty" yaml:"custom,omitempty"`
}

type PatchEntry struct {
	Address int    `json:"address" yaml:"address"` // 1-indexed
	Kind    string `json:"kind" yaml:"kind"`
	Fixture int    `json:"fixture,omitempty" yaml:"fixture,omitempty"` // 1-indexed
	Channel string `json:"channel" yaml:"channel"`
}

type SceneView struct {
	Number     int         `json:"number" yaml:"number"` // 1-indexed
	ValueCount int         `json:"valueCount" yaml:"valueCount"`
	Cells      []CellValue `json:"cells" yaml:"cells"`
}

type CellValue struct {
	Fixture int    `json:"fixture" yaml:"fixture"` // 1-indexed
	Channel string `json:"channel" yaml:"channel"`
	Value   int    `json:"value" yaml:"value"`
}

// ChaseView lists the step ids of a chase as stored in the image.
type ChaseView struct {
	Number int   `json:"number" yaml:"number"` // 1-indexed
	Steps  []int `json:"steps" yaml:"steps,flow"`
}

type DimmerView struct {
	Fixture  int      `json:"fixture" yaml:"fixture"` // 1-indexed
	Mode     int      `json:"mode" yaml:"mode"`
	Enabled  bool     `json:"enabled" yaml:"enabled"`
	Channels []string `json:"channels,omitempty" yaml:"channels,omitempty"`
}

// Build collects the exported view of f.
func Build(f *ledfile.File) *Document {
	doc := &Document{Deviations: f.Deviations()}

	for id := 0; id < ledfile.NamedChannels; id++ {
		doc.Names = append(doc.Names, Name{ID: id, Default: ledfile.DefaultName(id), Custom: f.Names.Custom(id)})
	}

	for addr, a := range f.Patch {
		if a.Kind == ledfile.Unassigned {
			continue
		}
		e := PatchEntry{Address: addr + 1, Kind: a.Kind.String(), Channel: f.Names.DisplayName(a.ChannelID())}
		if a.Kind == ledfile.FixtureChannel {
			e.Fixture = int(a.Fixture) + 1
		}
		doc.Patch = append(doc.Patch, e)
	}

	doc.Scenes = sceneViews(f, f.StaticScenes[:])
	doc.ChaseSteps = sceneViews(f, f.ChaseSteps[:])

	for i := range f.Chases {
		steps := f.Chases[i].Steps()
		if len(steps) == 0 {
			continue
		}
		cv := ChaseView{Number: i + 1, Steps: make([]int, len(steps))}
		for j, id := range steps {
			cv.Steps[j] = int(id)
		}
		doc.Chases = append(doc.Chases, cv)
	}

	for fx := 0; fx < ledfile.Fixtures; fx++ {
		dv := DimmerView{Fixture: fx + 1, Mode: int(f.Dimmers.Modes[fx]), Enabled: f.Dimmers.Enabled(fx)}
		for ch := 0; ch < ledfile.Channels; ch++ {
			if f.Dimmers.Applied(fx, ch) {
				dv.Channels = append(dv.Channels, f.Names.DisplayName(ch))
			}
		}
		if dv.Enabled || len(dv.Channels) > 0 {
			doc.Dimmers = append(doc.Dimmers, dv)
		}
	}
	return doc
}

func sceneViews(f *ledfile.File, scenes []ledfile.Scene) []SceneView {
	var out []SceneView
	for i := range scenes {
		s := &scenes[i]
		if !s.IsPopulated() {
			continue
		}
		sv := SceneView{Number: i + 1, ValueCount: int(s.ValueCount)}
		for fx := 0; fx < ledfile.Fixtures; fx++ {
			for ch := 0; ch < ledfile.Channels; ch++ {
				if s.Active[fx][ch] {
					sv.Cells = append(sv.Cells, CellValue{Fixture: fx + 1, Channel: f.Names.DisplayName(ch), Value: int(s.Values[fx][ch])})
				}
			}
		}
		out = append(out, sv)
	}
	return out
}
