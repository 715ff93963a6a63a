package physics

import "fmt"

// Build groups characters that share reach and power figures.
type Build uint8

const (
	BuildSmall Build = iota
	BuildMedium
	BuildLarge
)

// Hitbox is a batter's reach in centimetres either side of the model.
type Hitbox struct {
	Near float64
	Far  float64
}

type stats struct {
	hitbox      Hitbox
	batNear     float64 // metres from batter_x to the inner edge of the bat
	batFar      float64
	slapPower   float64
	chargePower float64
}

var buildStats = [...]stats{
	BuildSmall:  {hitbox: Hitbox{Near: 25, Far: 55}, batNear: 0.15, batFar: 0.85, slapPower: 55, chargePower: 70},
	BuildMedium: {hitbox: Hitbox{Near: 30, Far: 65}, batNear: 0.20, batFar: 1.00, slapPower: 65, chargePower: 85},
	BuildLarge:  {hitbox: Hitbox{Near: 40, Far: 80}, batNear: 0.25, batFar: 1.20, slapPower: 75, chargePower: 100},
}

// Character is one roster entry.
type Character struct {
	ID    int
	Name  string
	Build Build
}

// Roster maps character ids to names and body figures.
type Roster struct {
	chars []Character
}

var defaultChars = []struct {
	name  string
	build Build
}{
	{"Mario", BuildMedium}, {"Luigi", BuildMedium}, {"DK", BuildLarge}, {"Diddy", BuildSmall},
	{"Peach", BuildMedium}, {"Daisy", BuildMedium}, {"Yoshi", BuildMedium}, {"Baby Mario", BuildSmall},
	{"Baby Luigi", BuildSmall}, {"Bowser", BuildLarge}, {"Wario", BuildLarge}, {"Waluigi", BuildMedium},
	{"Koopa(G)", BuildSmall}, {"Toad(R)", BuildSmall}, {"Boo", BuildMedium}, {"Toadette", BuildSmall},
	{"Shy Guy(R)", BuildSmall}, {"Birdo", BuildMedium}, {"Monty", BuildSmall}, {"Bowser Jr", BuildMedium},
	{"Paratroopa(R)", BuildSmall}, {"Pianta(B)", BuildLarge}, {"Pianta(R)", BuildLarge}, {"Pianta(Y)", BuildLarge},
	{"Noki(B)", BuildSmall}, {"Noki(R)", BuildSmall}, {"Noki(G)", BuildSmall}, {"Bro(H)", BuildMedium},
	{"Toadsworth", BuildSmall}, {"Toad(B)", BuildSmall}, {"Toad(Y)", BuildSmall}, {"Toad(G)", BuildSmall},
	{"Toad(P)", BuildSmall}, {"Magikoopa(B)", BuildMedium}, {"Magikoopa(R)", BuildMedium}, {"Magikoopa(G)", BuildMedium},
	{"Magikoopa(Y)", BuildMedium}, {"King Boo", BuildLarge}, {"Petey", BuildLarge}, {"Dixie", BuildSmall},
	{"Goomba", BuildSmall}, {"Paragoomba", BuildSmall}, {"Koopa(R)", BuildSmall}, {"Paratroopa(G)", BuildSmall},
	{"Shy Guy(B)", BuildSmall}, {"Shy Guy(Y)", BuildSmall}, {"Shy Guy(G)", BuildSmall}, {"Shy Guy(Bk)", BuildSmall},
	{"Dry Bones(Gy)", BuildMedium}, {"Dry Bones(G)", BuildMedium}, {"Dry Bones(R)", BuildMedium}, {"Dry Bones(B)", BuildMedium},
	{"Bro(F)", BuildMedium}, {"Bro(B)", BuildMedium},
}

// DefaultRoster is the full 54-character cast.
func DefaultRoster() *Roster {
	r := &Roster{chars: make([]Character, len(defaultChars))}
	for i, c := range defaultChars {
		r.chars[i] = Character{ID: i, Name: c.name, Build: c.build}
	}
	return r
}

// Len is the number of characters.
func (r *Roster) Len() int { return len(r.chars) }

// Character looks up id.
func (r *Roster) Character(id int) (Character, error) {
	if id < 0 || id >= len(r.chars) {
		return Character{}, fmt.Errorf("%w: id %d", ErrUnknownCharacter, id)
	}
	return r.chars[id], nil
}

// Name returns the character's display name, or a placeholder for ids
// outside the roster so text panels never fail.
func (r *Roster) Name(id int) string {
	c, err := r.Character(id)
	if err != nil {
		return fmt.Sprintf("Unknown (%d)", id)
	}
	return c.Name
}

func (r *Roster) stats(id int) stats {
	c, err := r.Character(id)
	if err != nil {
		return buildStats[BuildMedium]
	}
	return buildStats[c.Build]
}

// Hitbox returns the batter body hitbox.
func (r *Roster) Hitbox(id int) Hitbox {
	return r.stats(id).hitbox
}

// HitboxSpan returns the batter hitbox as left and right x coordinates
// around modelX. Left-handed batters (handedness 1) mirror it.
func (r *Roster) HitboxSpan(id int, modelX float64, handedness int) (left, right float64) {
	h := r.Hitbox(id)
	if handedness == 0 {
		return modelX - h.Far/100, modelX + h.Near/100
	}
	return modelX - h.Near/100, modelX + h.Far/100
}

// BatHitbox returns the x coordinates of the near and far edges of the bat.
// A left-handed batter swings toward +x.
func (r *Roster) BatHitbox(id int, batterX float64, handedness int) (near, far float64) {
	s := r.stats(id)
	dir := 1.0
	if handedness == 0 {
		dir = -1
	}
	return batterX + dir*s.batNear, batterX + dir*s.batFar
}
