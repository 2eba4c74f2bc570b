package mifare

import (
	"fmt"
	"io"

	"github.com/bwowan/vb-Mifare1K-smartcard/internal/utils/log"
)

// ReadSector authenticates one sector and reads its four blocks. Failures
// are recorded per block so a partially readable card still produces
// output.
func ReadSector(t Transmitter, sector int, key Key) Sector {
	var s Sector
	base := byte(sector * BlocksPerSector)

	if err := LoadKey(t, key.Data); err != nil {
		log.Debugf("sector %d: %v", sector, err)
		s.Status = StatusKeyError
		return s
	}
	if err := Authenticate(t, base, key.Type); err != nil {
		log.Debugf("sector %d: %v", sector, err)
		s.Status = StatusAuthError
		return s
	}

	s.Status = StatusOK
	for i := 0; i < BlocksPerSector; i++ {
		data, err := ReadBlock(t, base+byte(i))
		if err != nil {
			log.Debugf("sector %d: %v", sector, err)
			s.Blocks[i].Status = StatusReadError
			s.Status = StatusReadError
			continue
		}
		s.Blocks[i].Data = data
		s.Blocks[i].Status = StatusOK
		if i == BlocksPerSector-1 {
			if err := s.Trailer.Parse(data); err != nil {
				log.Debugf("sector %d: %v", sector, err)
			}
		}
	}
	return s
}

// ReadCard dumps the requested sectors into d and parses the
// manufacturer block when sector 0 is among them.
func ReadCard(t Transmitter, d *Dump, sectors []int, key Key) {
	d.Status = StatusOK
	for _, n := range sectors {
		if n < 0 || n >= TotalSectors {
			continue
		}
		d.Sectors[n] = ReadSector(t, n, key)
		if d.Sectors[n].Status != StatusOK {
			d.Status = d.Sectors[n].Status
		}
	}
	d.Head.Parse(&d.Sectors[0].Blocks[0])
}

// Readable reports whether at least one of the requested sectors yielded
// a block.
func (d *Dump) Readable(sectors []int) bool {
	for _, n := range sectors {
		if n < 0 || n >= TotalSectors {
			continue
		}
		for _, b := range d.Sectors[n].Blocks {
			if b.Status == StatusOK {
				return true
			}
		}
	}
	return false
}

// Render writes the dump of the requested sectors in the head / trailer /
// blocks layout.
func (d *Dump) Render(w io.Writer, sectors []int) {
	fmt.Fprintln(w, d.Head.String())
	for _, n := range sectors {
		if n < 0 || n >= TotalSectors {
			continue
		}
		s := &d.Sectors[n]
		fmt.Fprintf(w, "sector %02d %s; %s\n", n, s.Status, s.Trailer.String())
		access := AccessStrings(s.Trailer.AccessBits)
		for i := range s.Blocks {
			b := &s.Blocks[i]
			if b.Status != StatusOK {
				fmt.Fprintf(w, " %02d %s\n", i, b.Status)
				continue
			}
			fmt.Fprintf(w, " %02d %s %s access: %s\n", i, b.Status, HexBytes(b.Data), access[i])
		}
	}
}
