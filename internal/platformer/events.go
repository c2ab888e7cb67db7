package platformer

// Outcome - итог уровня
type Outcome uint8

const (
	Running Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// DeathReason - причина гибели персонажа
type DeathReason uint8

const (
	DeathCrushed    DeathReason = iota // раздавлен платформой
	DeathFell                          // упал за нижний край ареала
	DeathLeftArea                      // вышел за ареал по горизонтали
	DeathHitBarrier                    // снаряд попал в стену
	DeathShot                          // убит снарядом (или снаряд попал в цель)
	DeathLeftView                      // снаряд покинул экран
)

func (r DeathReason) String() string {
	switch r {
	case DeathCrushed:
		return "crushed"
	case DeathFell:
		return "fell"
	case DeathLeftArea:
		return "left_area"
	case DeathHitBarrier:
		return "hit_barrier"
	case DeathShot:
		return "shot"
	case DeathLeftView:
		return "left_view"
	default:
		return "unknown"
	}
}

// EventKind - тип события уровня
type EventKind uint8

const (
	EventActorDied EventKind = iota
	EventActorSpawned
	EventOutcome
)

// Event - событие уровня
type Event struct {
	Kind    EventKind
	ActorID int
	Name    string
	Reason  DeathReason
	Outcome Outcome
}

// Observer получает события уровня синхронно, внутри Update
type Observer func(Event)
