package chat

import "testing"

func TestBanlist(t *testing.T) {
	b := NewBanlist([]string{"troll"})

	if !b.IsBanned("troll") {
		t.Fatal("seeded username not banned")
	}
	if b.IsBanned("alice") {
		t.Fatal("unlisted username reported banned")
	}

	b.Ban("alice")
	if !b.IsBanned("alice") {
		t.Fatal("username not banned after Ban")
	}

	// Repeated bans keep the record; unban fully lifts it.
	b.Ban("alice")
	b.Unban("alice")
	if b.IsBanned("alice") {
		t.Fatal("username still banned after Unban")
	}

	b.Unban("ghost")
}
