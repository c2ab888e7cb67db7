package game

import (
	"context"

	"github.com/annel0/blockplay/internal/eventbus"
	"github.com/annel0/blockplay/internal/platformer"
	"github.com/annel0/blockplay/internal/vec"
	"github.com/annel0/blockplay/internal/world"
)

// Источники событий в шине
const (
	SourceWorld      = "world"
	SourcePlatformer = "platformer"
)

// Типы событий платформера
const (
	EventActorDied    = "ActorDied"
	EventActorSpawned = "ActorSpawned"
	EventLevelOutcome = "LevelOutcome"
)

// BlockPayload - нагрузка событий мира блоков
type BlockPayload struct {
	Position vec.Vec3 `json:"position"`
	Count    int      `json:"count"`
}

// ActorPayload - нагрузка событий персонажей
type ActorPayload struct {
	ActorID int    `json:"actor_id"`
	Name    string `json:"name"`
	Reason  string `json:"reason,omitempty"`
}

// OutcomePayload - нагрузка события завершения уровня
type OutcomePayload struct {
	Outcome string `json:"outcome"`
	Frame   uint64 `json:"frame"`
}

func (s *Session) onBlockEvent(ev world.BlockEvent) {
	s.publish(SourceWorld, ev.EventType.String(), 1, BlockPayload{Position: ev.Position, Count: ev.Count})
}

func (s *Session) onLevelEvent(ev platformer.Event) {
	switch ev.Kind {
	case platformer.EventActorDied:
		s.publish(SourcePlatformer, EventActorDied, 3, ActorPayload{ActorID: ev.ActorID, Name: ev.Name, Reason: ev.Reason.String()})
	case platformer.EventActorSpawned:
		s.publish(SourcePlatformer, EventActorSpawned, 1, ActorPayload{ActorID: ev.ActorID, Name: ev.Name})
	case platformer.EventOutcome:
		s.publish(SourcePlatformer, EventLevelOutcome, 9, OutcomePayload{Outcome: ev.Outcome.String(), Frame: s.level.Frame()})
	}
}

func (s *Session) publish(source, eventType string, priority int, payload any) {
	if s.bus == nil {
		return
	}
	env, err := eventbus.NewEnvelope(source, eventType, payload)
	if err != nil {
		s.logger.Warn("Не удалось упаковать событие %s: %v", eventType, err)
		return
	}
	env.Priority = priority
	if err := s.bus.Publish(context.Background(), env); err != nil {
		s.logger.Warn("Не удалось опубликовать событие %s: %v", eventType, err)
	}
}
