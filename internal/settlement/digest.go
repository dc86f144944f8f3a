// Feature digesting for determinism verification: a sha256 over sorted ids
// and quantized geometry. Two runs of the engine over the same seed and
// config must produce equal digests for equal query windows.
package settlement

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// DigestFeatures hashes a feature set into a hex string. Slices in Features
// are already id-sorted by the query layer, so the byte stream is
// canonical. Floats are quantized to a microunit so the digest tolerates
// nothing beyond representation-identical values.
func DigestFeatures(f Features) string {
	h := sha256.New()
	var tmp [8]byte

	writeF := func(v float64) {
		binary.LittleEndian.PutUint64(tmp[:], uint64(int64(math.Round(v*1e6))))
		h.Write(tmp[:])
	}
	writeS := func(s string) {
		binary.LittleEndian.PutUint64(tmp[:], uint64(len(s)))
		h.Write(tmp[:])
		h.Write([]byte(s))
	}

	for _, v := range f.Villages {
		writeS(v.ID)
		writeF(v.Position.X)
		writeF(v.Position.Y)
		writeF(v.Score)
		writeF(v.Radius)
		writeS(string(v.Template))
	}
	for _, r := range f.Roads {
		writeS(r.ID)
		writeS(string(r.Type))
		writeS(string(r.Hierarchy))
		writeF(r.Width)
		writeS(r.FromVillage)
		writeS(r.ToVillage)
		for _, p := range r.Points {
			writeF(p.X)
			writeF(p.Y)
		}
	}
	for _, n := range f.RoadNodes {
		writeS(n.ID)
		writeS(string(n.Kind))
		writeF(n.Position.X)
		writeF(n.Position.Y)
	}
	for _, e := range f.RoadEdges {
		writeS(e.ID)
		writeS(e.FromNode)
		writeS(e.ToNode)
		writeF(e.Length)
		for _, b := range e.BridgeNodeIDs {
			writeS(b)
		}
	}
	for _, p := range f.Parcels {
		writeS(p.ID)
		writeS(p.VillageID)
		writeF(p.Position.X)
		writeF(p.Position.Y)
		writeF(p.Width)
		writeF(p.Depth)
		writeF(p.Angle)
	}
	for _, hs := range f.Houses {
		writeS(hs.ID)
		writeF(hs.Position.X)
		writeF(hs.Position.Y)
		writeF(hs.Width)
		writeF(hs.Depth)
		binary.LittleEndian.PutUint64(tmp[:], uint64(hs.RoofStyle))
		h.Write(tmp[:])
	}

	return hex.EncodeToString(h.Sum(nil))
}
