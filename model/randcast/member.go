package randcast

// Member is a node's seat in a group.
type Member struct {
	Address Address
	// PartialPublicKey is submitted with the member's DKG commitment and is
	// empty until then.
	PartialPublicKey []byte
}

// MemberSlot is one seat of a MemberSet.
type MemberSlot struct {
	Member   Member
	Occupied bool
}

// MemberSet holds the members of a group in stable, index-addressed slots.
//
// Removing a member tombstones its slot instead of compacting the list, so the
// slot of every other member stays valid across removals. Additions reuse the
// lowest free slot before growing the set. Iteration order is slot order.
type MemberSet struct {
	Slots []MemberSlot
}

// Len returns the number of occupied slots.
func (s *MemberSet) Len() int {
	n := 0
	for _, slot := range s.Slots {
		if slot.Occupied {
			n++
		}
	}
	return n
}

// Add seats the node in the lowest free slot and returns that slot.
// The caller must ensure the node is not already a member.
func (s *MemberSet) Add(addr Address) int {
	for i := range s.Slots {
		if !s.Slots[i].Occupied {
			s.Slots[i] = MemberSlot{Member: Member{Address: addr}, Occupied: true}
			return i
		}
	}
	s.Slots = append(s.Slots, MemberSlot{Member: Member{Address: addr}, Occupied: true})
	return len(s.Slots) - 1
}

// Remove frees the slot of the given node. It returns the freed slot and
// false if the node is not a member.
func (s *MemberSet) Remove(addr Address) (int, bool) {
	slot, ok := s.SlotOf(addr)
	if !ok {
		return -1, false
	}
	s.Slots[slot] = MemberSlot{}
	s.trim()
	return slot, true
}

// trim drops tombstones at the end of the set.
func (s *MemberSet) trim() {
	n := len(s.Slots)
	for n > 0 && !s.Slots[n-1].Occupied {
		n--
	}
	s.Slots = s.Slots[:n]
}

// SlotOf returns the slot the node is seated in.
func (s *MemberSet) SlotOf(addr Address) (int, bool) {
	for i, slot := range s.Slots {
		if slot.Occupied && slot.Member.Address == addr {
			return i, true
		}
	}
	return -1, false
}

// Contains returns true if the node is a member.
func (s *MemberSet) Contains(addr Address) bool {
	_, ok := s.SlotOf(addr)
	return ok
}

// At returns the member seated in the given slot.
func (s *MemberSet) At(slot int) (Member, bool) {
	if slot < 0 || slot >= len(s.Slots) || !s.Slots[slot].Occupied {
		return Member{}, false
	}
	return s.Slots[slot].Member, true
}

// OccupiedSlots returns the occupied slot indices in ascending order.
func (s *MemberSet) OccupiedSlots() []int {
	slots := make([]int, 0, len(s.Slots))
	for i, slot := range s.Slots {
		if slot.Occupied {
			slots = append(slots, i)
		}
	}
	return slots
}

// Addresses returns the member addresses in slot order.
func (s *MemberSet) Addresses() AddressList {
	addrs := make(AddressList, 0, len(s.Slots))
	for _, slot := range s.Slots {
		if slot.Occupied {
			addrs = append(addrs, slot.Member.Address)
		}
	}
	return addrs
}

// Members returns copies of the members in slot order.
func (s *MemberSet) Members() []Member {
	members := make([]Member, 0, len(s.Slots))
	for _, slot := range s.Slots {
		if slot.Occupied {
			members = append(members, Member{
				Address:          slot.Member.Address,
				PartialPublicKey: copyBytes(slot.Member.PartialPublicKey),
			})
		}
	}
	return members
}

// SetPartialPublicKey records the partial public key of a member.
func (s *MemberSet) SetPartialPublicKey(addr Address, key []byte) bool {
	slot, ok := s.SlotOf(addr)
	if !ok {
		return false
	}
	s.Slots[slot].Member.PartialPublicKey = copyBytes(key)
	return true
}

// ClearPartialPublicKeys forgets the partial public keys of all members.
func (s *MemberSet) ClearPartialPublicKeys() {
	for i := range s.Slots {
		s.Slots[i].Member.PartialPublicKey = nil
	}
}

// Reset removes all members.
func (s *MemberSet) Reset() {
	s.Slots = nil
}

// Copy returns a deep copy of the set.
func (s *MemberSet) Copy() MemberSet {
	if s.Slots == nil {
		return MemberSet{}
	}
	slots := make([]MemberSlot, len(s.Slots))
	for i, slot := range s.Slots {
		slots[i] = MemberSlot{
			Member: Member{
				Address:          slot.Member.Address,
				PartialPublicKey: copyBytes(slot.Member.PartialPublicKey),
			},
			Occupied: slot.Occupied,
		}
	}
	return MemberSet{Slots: slots}
}
