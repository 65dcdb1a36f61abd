// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neurite

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/goki/ki/indent"
	"github.com/goki/mat32"
)

// NetState is the decode structure for a network state file: the
// complete persistent state of a Network, sufficient to restore it and
// continue a run.  See WriteStateJSON / ReadStateJSON.
type NetState struct {
	Network  string            `desc:"network name"`
	MetaData map[string]string `desc:"arbitrary metadata, e.g., the tick the state was saved at"`
	Neurons  []NeurState       `desc:"state of each neuron slot, in ID order -- deleted slots are present with Off set, so IDs stay stable across save / load"`
}

// NeurState is the decode structure for one neuron's saved state
type NeurState struct {
	ID        NeuronID           `desc:"neuron ID == index of this entry"`
	Off       bool               `desc:"neuron was deleted -- all other fields are ignored"`
	Role      NeurRole           `desc:"functional role"`
	Pol       Polarity           `desc:"signaling polarity"`
	LastFired int64              `desc:"tick of last firing, -1 if never"`
	Pos       mat32.Vec3         `desc:"soma position"`
	AxPos     mat32.Vec3         `desc:"axon terminal position"`
	Vars      map[string]float32 `desc:"named float state variables, per NeuronVars"`
	AC        []NeuronID         `desc:"axonal connections"`
	DC        []NeuronID         `desc:"dendritic connections"`
}

//////////////////////////////////////////////////////////////////////////////////////
//  State File

// SaveStateJSON saves network state (neurons, connections, learning state)
// to a JSON-formatted file.  If filename has .gz extension, then file is gzip compressed.
func (nt *Network) SaveStateJSON(filename string) error {
	fp, err := os.Create(filename)
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	ext := filepath.Ext(filename)
	if ext == ".gz" {
		gzr := gzip.NewWriter(fp)
		defer gzr.Close()
		nt.WriteStateJSON(gzr)
	} else {
		nt.WriteStateJSON(fp)
	}
	nt.StateFile = filename
	return nil
}

// OpenStateJSON opens network state (neurons, connections, learning state)
// from a JSON-formatted file.  If filename has .gz extension, then file is gzip uncompressed.
func (nt *Network) OpenStateJSON(filename string) error {
	fp, err := os.Open(filename)
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	nt.StateFile = filename
	ext := filepath.Ext(filename)
	if ext == ".gz" {
		gzr, err := gzip.NewReader(fp)
		if err != nil {
			log.Println(err)
			return err
		}
		defer gzr.Close()
		return nt.ReadStateJSON(gzr)
	} else {
		return nt.ReadStateJSON(fp)
	}
}

// WriteStateJSON writes the complete network state in a JSON text format.
// We build in the indentation logic to make it much faster and
// more efficient.
func (nt *Network) WriteStateJSON(w io.Writer) {
	depth := 0
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Network\": %q,\n", nt.Nm))) // note: can't use \n in `` so need "
	if len(nt.MetaData) > 0 {
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"MetaData\": "))
		mb, _ := json.Marshal(nt.MetaData) // sorts the keys
		w.Write(mb)
		w.Write([]byte(",\n"))
	}
	w.Write(indent.TabBytes(depth))
	nn := len(nt.Neurons)
	if nn == 0 {
		w.Write([]byte("\"Neurons\": null\n"))
	} else {
		w.Write([]byte("\"Neurons\": [\n"))
		depth++
		for ni := range nt.Neurons {
			nrn := &nt.Neurons[ni]
			nrn.WriteStateJSON(w, depth)
			if ni == nn-1 {
				w.Write([]byte("\n"))
			} else {
				w.Write([]byte(",\n"))
			}
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("]\n"))
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}\n"))
}

// WriteStateJSON writes this neuron's state in a JSON text format.  Deleted
// neurons write only their ID and the Off marker, so that the positional
// ID encoding of the arena survives a save / load round trip.
func (nrn *Neuron) WriteStateJSON(w io.Writer, depth int) {
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"ID\": %v,\n", nrn.ID)))
	if nrn.IsOff() {
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"Off\": true\n"))
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("}")) // note: leave unterminated as outer loop needs to add , or just \n depending
		return
	}
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Role\": %q,\n", nrn.Role.String())))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Pol\": %q,\n", nrn.Pol.String())))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"LastFired\": %v,\n", nrn.LastFired)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Pos\": { \"X\": %s, \"Y\": %s, \"Z\": %s },\n",
		strconv.FormatFloat(float64(nrn.Pos.X), 'g', -1, 32),
		strconv.FormatFloat(float64(nrn.Pos.Y), 'g', -1, 32),
		strconv.FormatFloat(float64(nrn.Pos.Z), 'g', -1, 32))))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"AxPos\": { \"X\": %s, \"Y\": %s, \"Z\": %s },\n",
		strconv.FormatFloat(float64(nrn.AxPos.X), 'g', -1, 32),
		strconv.FormatFloat(float64(nrn.AxPos.Y), 'g', -1, 32),
		strconv.FormatFloat(float64(nrn.AxPos.Z), 'g', -1, 32))))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("\"Vars\": {\n"))
	depth++
	nv := len(NeuronVars)
	for vi, vn := range NeuronVars {
		w.Write(indent.TabBytes(depth))
		w.Write([]byte(fmt.Sprintf("%q: ", vn)))
		w.Write([]byte(strconv.FormatFloat(float64(nrn.VarByIdx(vi)), 'g', -1, 32)))
		if vi == nv-1 {
			w.Write([]byte("\n"))
		} else {
			w.Write([]byte(",\n"))
		}
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("},\n"))
	w.Write(indent.TabBytes(depth))
	nc := len(nrn.AC)
	if nc == 0 {
		w.Write([]byte("\"AC\": null,\n"))
	} else {
		w.Write([]byte("\"AC\": [ "))
		for ci, id := range nrn.AC {
			w.Write([]byte(fmt.Sprintf("%v", id)))
			if ci == nc-1 {
				w.Write([]byte(" ],\n"))
			} else {
				w.Write([]byte(", "))
			}
		}
	}
	w.Write(indent.TabBytes(depth))
	nc = len(nrn.DC)
	if nc == 0 {
		w.Write([]byte("\"DC\": null\n"))
	} else {
		w.Write([]byte("\"DC\": [ "))
		for ci, id := range nrn.DC {
			w.Write([]byte(fmt.Sprintf("%v", id)))
			if ci == nc-1 {
				w.Write([]byte(" ]\n"))
			} else {
				w.Write([]byte(", "))
			}
		}
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}")) // note: leave unterminated as outer loop needs to add , or just \n depending
}

// ReadStateJSON reads network state from a JSON text format.  Reads the
// entire file into a temporary NetState structure that is then passed to
// SetState to update the network.
func (nt *Network) ReadStateJSON(r io.Reader) error {
	ns, err := NetStateReadJSON(r)
	if err != nil {
		return err // note: already logged
	}
	err = nt.SetState(ns)
	if err != nil {
		log.Println(err)
	}
	return err
}

// NetStateReadJSON reads a network state file into a NetState structure
func NetStateReadJSON(r io.Reader) (*NetState, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	ns := &NetState{}
	err = json.Unmarshal(b, ns)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	return ns, nil
}

// SetState sets the network state from NetState decoded values, replacing
// the current neuron arena entirely.  Pending deliveries and firing
// records are cleared: the restored network resumes from a commit
// boundary.
func (nt *Network) SetState(ns *NetState) error {
	var err error
	if ns.Network != "" {
		nt.Nm = ns.Network
	}
	if ns.MetaData != nil {
		if nt.MetaData == nil {
			nt.MetaData = ns.MetaData
		} else {
			for mk, mv := range ns.MetaData {
				nt.MetaData[mk] = mv
			}
		}
	}
	nt.Neurons = make([]Neuron, len(ns.Neurons))
	for i := range ns.Neurons {
		sn := &ns.Neurons[i]
		nrn := &nt.Neurons[i]
		nrn.ID = NeuronID(i)
		if sn.ID != nrn.ID {
			err = fmt.Errorf("Network %v: state entry %d has ID %d -- state files are positional", nt.Nm, i, sn.ID)
			continue
		}
		if sn.Off {
			nrn.SetFlag(NeurOff)
			continue
		}
		nrn.Role = sn.Role
		nrn.Pol = sn.Pol
		nrn.LastFired = sn.LastFired
		nrn.Pos = sn.Pos
		nrn.AxPos = sn.AxPos
		for vn, vv := range sn.Vars {
			er := nrn.SetVarByName(vn, vv)
			if er != nil {
				err = er
			}
		}
		nrn.AC = append(ConnIDs{}, sn.AC...)
		nrn.DC = append(ConnIDs{}, sn.DC...)
		sort.Slice(nrn.AC, func(a, b int) bool { return nrn.AC[a] < nrn.AC[b] })
		sort.Slice(nrn.DC, func(a, b int) bool { return nrn.DC[a] < nrn.DC[b] })
	}
	nt.Queue = nt.Queue[:0]
	nt.Fired = nt.Fired[:0]
	if err != nil {
		log.Println(err)
	}
	return err
}
