// SPDX-License-Identifier: GPL-2.0-or-later

package game

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/structpb"

	"goquake2/math/vec"
)

func vecList(v vec.Vec3) []interface{} {
	return []interface{}{float64(v[0]), float64(v[1]), float64(v[2])}
}

func listVec(l *structpb.ListValue) vec.Vec3 {
	var v vec.Vec3
	for i, x := range l.GetValues() {
		if i > 2 {
			break
		}
		v[i] = float32(x.GetNumberValue())
	}
	return v
}

// WriteLevel stores the non client edicts of the level.
func (g *Game) WriteLevel() (*structpb.Struct, error) {
	var ents []interface{}
	for i := g.maxClients + 1; i < g.numEdicts; i++ {
		e := &g.edicts[i]
		if !e.InUse {
			continue
		}
		ents = append(ents, map[string]interface{}{
			"number":     float64(e.Number),
			"classname":  e.ClassName,
			"targetname": e.TargetName,
			"target":     e.Target,
			"spawnflags": float64(e.SpawnFlags),
			"origin":     vecList(e.Origin),
			"angles":     vecList(e.Angles),
		})
	}
	s, err := structpb.NewStruct(map[string]interface{}{
		"mapname":  g.mapName,
		"level":    g.levelName,
		"framenum": float64(g.frameNum),
		"edicts":   ents,
	})
	if err != nil {
		return nil, errors.Wrap(err, "WriteLevel")
	}
	return s, nil
}

// ReadLevel replaces the non client edicts with the ones stored in l and
// links them again.
func (g *Game) ReadLevel(l *structpb.Struct) error {
	if g.edicts == nil {
		return errors.New("ReadLevel: game not initialized")
	}
	f := l.GetFields()
	if m := f["mapname"].GetStringValue(); m != g.mapName {
		return errors.Errorf("ReadLevel: level is for %q, running %q", m, g.mapName)
	}
	for i := g.maxClients + 1; i < g.numEdicts; i++ {
		if g.edicts[i].InUse {
			g.FreeEdict(&g.edicts[i])
		}
	}
	g.numEdicts = g.maxClients + 1
	g.levelName = f["level"].GetStringValue()
	g.frameNum = int(f["framenum"].GetNumberValue())

	for _, v := range f["edicts"].GetListValue().GetValues() {
		ef := v.GetStructValue().GetFields()
		n := int(ef["number"].GetNumberValue())
		if n <= g.maxClients || n >= len(g.edicts) {
			return errors.Errorf("ReadLevel: bad edict number %d", n)
		}
		if n >= g.numEdicts {
			g.numEdicts = n + 1
		}
		e := &g.edicts[n]
		e.clear()
		e.InUse = true
		e.ClassName = ef["classname"].GetStringValue()
		e.TargetName = ef["targetname"].GetStringValue()
		e.Target = ef["target"].GetStringValue()
		e.SpawnFlags = int(ef["spawnflags"].GetNumberValue())
		e.Origin = listVec(ef["origin"].GetListValue())
		e.Angles = listVec(ef["angles"].GetListValue())
		g.spawn(e)
	}
	return nil
}
