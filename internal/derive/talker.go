package derive

// TalkerFloor is the rate (bytes/s) a container must strictly exceed to be
// reported as a top talker.
const TalkerFloor = 20 * 1024.0

// Talker is the busiest container in one direction.
type Talker struct {
	ID   string
	Name string
	Rate float64 // bytes per second
}

// TopTalkers holds the busiest downloader and uploader of one cycle. A nil
// field means nothing exceeded the floor in that direction.
type TopTalkers struct {
	Download *Talker
	Upload   *Talker
}

// Rank picks the highest download and upload rates independently. Ties keep
// the container seen first.
func Rank(rates []EntityRate) TopTalkers {
	var top TopTalkers
	maxDown, maxUp := 0.0, 0.0

	for _, r := range rates {
		if r.Rx > maxDown {
			maxDown = r.Rx
			top.Download = &Talker{ID: r.Entity.ID, Name: r.Entity.Name, Rate: r.Rx}
		}
		if r.Tx > maxUp {
			maxUp = r.Tx
			top.Upload = &Talker{ID: r.Entity.ID, Name: r.Entity.Name, Rate: r.Tx}
		}
	}

	if maxDown <= TalkerFloor {
		top.Download = nil
	}
	if maxUp <= TalkerFloor {
		top.Upload = nil
	}
	return top
}
