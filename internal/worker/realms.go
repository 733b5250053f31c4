package worker

// AddRealm pins a realm to the scan list. An empty list means every known
// realm gets scanned.
func (w *MarketScanner) AddRealm(id int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, existingID := range w.realmIDs {
		if existingID == id {
			return
		}
	}

	w.realmIDs = append(w.realmIDs, id)
}

func (w *MarketScanner) AddRealms(ids ...int64) {
	for _, id := range ids {
		w.AddRealm(id)
	}
}

func (w *MarketScanner) RemoveRealm(id int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, existingID := range w.realmIDs {
		if existingID == id {
			w.realmIDs = append(w.realmIDs[:i], w.realmIDs[i+1:]...)
			return
		}
	}
}

// Realms returns a copy of the pinned scan list.
func (w *MarketScanner) Realms() []int64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.realmIDs) == 0 {
		return nil
	}

	result := make([]int64, len(w.realmIDs))
	copy(result, w.realmIDs)
	return result
}

func (w *MarketScanner) SetRealms(ids []int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(ids) == 0 {
		w.realmIDs = nil
		return
	}

	w.realmIDs = make([]int64, len(ids))
	copy(w.realmIDs, ids)
}

func (w *MarketScanner) ClearRealms() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.realmIDs = nil
}
