package game

type EventType int

const (
	EventEnteredVehicle EventType = iota
	EventExitedVehicle
	EventCrime
	EventWantedChanged
	EventPoliceSpawned
	EventVehicleSmoking
	EventVehicleDestroyed
	EventPedestrianKilled
	EventPlayerWasted
	EventPlayerRespawned
	EventMissionCompleted
	EventAllMissionsComplete
	EventSpawnFailed

	eventTypeCount
)

var eventNames = [...]string{
	EventEnteredVehicle:      "entered_vehicle",
	EventExitedVehicle:       "exited_vehicle",
	EventCrime:               "crime",
	EventWantedChanged:       "wanted_changed",
	EventPoliceSpawned:       "police_spawned",
	EventVehicleSmoking:      "vehicle_smoking",
	EventVehicleDestroyed:    "vehicle_destroyed",
	EventPedestrianKilled:    "pedestrian_killed",
	EventPlayerWasted:        "player_wasted",
	EventPlayerRespawned:     "player_respawned",
	EventMissionCompleted:    "mission_completed",
	EventAllMissionsComplete: "all_missions_complete",
	EventSpawnFailed:         "spawn_failed",
}

func (t EventType) String() string {
	if t < 0 || t >= eventTypeCount {
		return "unknown"
	}
	return eventNames[t]
}

// Event is a single notification from the simulation. ID is the entity the
// event concerns, zero when none. Data carries a per-type payload: the crime
// reason, the new wanted level, the mission id or the spawn kind.
type Event struct {
	Type EventType
	Tick uint64
	ID   EntityID
	X, Y float64
	Data int
}

type EventHandler func(Event)

type EventBus struct {
	handlers map[EventType][]EventHandler
	all      []EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

// SubscribeAll registers fn for every event type. Catch-all handlers run after
// the typed ones.
func (eb *EventBus) SubscribeAll(fn EventHandler) {
	eb.all = append(eb.all, fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
	for _, fn := range eb.all {
		fn(e)
	}
}
