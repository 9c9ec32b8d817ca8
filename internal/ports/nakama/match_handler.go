package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"

	"ohhell/internal/app"
	"ohhell/internal/bot"
	"ohhell/internal/config"
	"ohhell/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// cmdRecord remembers the last applied command per player so duplicate
// deliveries are acknowledged with the original resulting version
// instead of mutating state a second time.
type cmdRecord struct {
	Seq     uint64
	Version uint64
}

// MatchState holds the authoritative runtime state for one table. All
// mutation happens inside the match loop, which Nakama serializes.
type MatchState struct {
	Seats        [app.MaxPlayers]string
	DisplayNames map[string]string
	OwnerSeat    int
	Tick         int64
	Presences    map[string]runtime.Presence
	App          *app.Service
	Cfg          *config.GameConfig
	Game         *domain.Game

	// Version increments once per applied mutation and is carried on
	// every outbound event.
	Version uint64
	LastCmd map[string]cmdRecord

	// Turn timeout tracking. TurnKey identifies the turn the deadline
	// belongs to; when the turn changes the deadline resets.
	TurnKey      string
	TurnDeadline int64
}

// GetOpenSeatsCount returns the number of empty seats.
func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

// GetOccupiedSeatCount returns the number of occupied seats.
func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) seatOf(userID string) int {
	for i, uid := range ms.Seats {
		if uid == userID {
			return i
		}
	}
	return -1
}

func (ms *MatchState) gameActive() bool {
	return ms.Game != nil && ms.Game.Phase != domain.PhaseEnded && ms.Game.Phase != domain.PhaseFailed
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created. Configuration comes
// from the data file, then environment overrides, then per-match params.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}
	cfg := config.GetGameConfig()

	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env["ohhell_turn_timeout_sec"]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				c := *cfg
				c.TurnTimeoutSeconds = i
				cfg = &c
			}
		}
		if val, ok := env["ohhell_trump_policy"]; ok {
			c := *cfg
			c.TrumpPolicy = val
			cfg = &c
		}
	}

	cfg, err := config.WithMatchParams(cfg, params)
	if err != nil {
		logger.Warn("MatchInit: Bad match params, using defaults: %v", err)
		cfg = config.GetGameConfig()
	}

	state := &MatchState{
		DisplayNames: make(map[string]string),
		OwnerSeat:    -1,
		Presences:    make(map[string]runtime.Presence),
		App:          app.NewService(nil, cfg),
		Cfg:          cfg,
		LastCmd:      make(map[string]cmdRecord),
	}

	tickRate := 1 // one tick per second; turn timeouts count ticks
	return state, tickRate, buildLabel(state)
}

// MatchJoinAttempt validates whether a presence may join: reconnection
// is always allowed for a seated player; new joins only while the table
// is in the lobby and has an open seat.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if matchState.seatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}
	if matchState.gameActive() {
		return state, false, "match_in_progress"
	}
	if matchState.GetOpenSeatsCount() == 0 {
		return state, false, "match_full"
	}
	return state, true, ""
}

// MatchJoin seats new players and re-attaches reconnecting ones. A
// reconnect never mutates game state; it only triggers a full snapshot
// push to the rejoining session.
func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		matchState.Presences[uid] = p

		if seat := matchState.seatOf(uid); seat >= 0 {
			// Reconnection: same seat, same player, no state change.
			if matchState.Game != nil {
				matchState.Game.MarkConnected(uid, true)
			}
			logger.Info("MatchJoin: %s reconnected to seat %d", uid, seat)
			mh.sendSnapshot(matchState, dispatcher, logger, uid)
			mh.broadcastJoin(matchState, dispatcher, logger, uid, seat, true)
			continue
		}

		seat := -1
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				seat = i
				break
			}
		}
		if seat < 0 {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", uid)
			continue
		}

		matchState.Seats[seat] = uid
		matchState.DisplayNames[uid] = p.GetUsername()
		if matchState.OwnerSeat < 0 {
			matchState.OwnerSeat = seat
		}
		matchState.Version++
		logger.Debug("MatchJoin: %s seated at %d", uid, seat)

		mh.broadcastJoin(matchState, dispatcher, logger, uid, seat, false)
		mh.sendSnapshot(matchState, dispatcher, logger, uid)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave marks players disconnected. Mid-game the seat is retained
// so the player can reconnect; in the lobby the seat is freed.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		delete(matchState.Presences, uid)

		seat := matchState.seatOf(uid)
		if seat < 0 {
			continue
		}

		if matchState.gameActive() {
			matchState.Game.MarkConnected(uid, false)
			logger.Debug("MatchLeave: %s disconnected mid-game, seat %d retained.", uid, seat)
		} else {
			matchState.Seats[seat] = ""
			delete(matchState.DisplayNames, uid)
			delete(matchState.LastCmd, uid)
			logger.Debug("MatchLeave: %s left, seat %d freed.", uid, seat)
		}
		matchState.Version++

		evt, _ := json.Marshal(PlayerLeftEvent{Version: matchState.Version, UserID: uid, Seat: seat})
		dispatcher.BroadcastMessage(OpPlayerLeft, evt, nil, nil, true)
	}

	if matchState.OwnerSeat >= 0 && matchState.Seats[matchState.OwnerSeat] == "" {
		matchState.OwnerSeat = -1
		for i, uid := range matchState.Seats {
			if uid != "" {
				matchState.OwnerSeat = i
				break
			}
		}
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no connected players.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLoop applies incoming commands in arrival order and runs the
// turn-timeout auto-action. Nakama delivers all messages for the match
// to this single loop, which is the serialization point for all state
// mutation.
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	for _, msg := range messages {
		mh.applyCommand(matchState, dispatcher, logger, msg)
	}

	mh.processTurnTimeout(matchState, dispatcher, logger)

	return matchState
}

// applyCommand deduplicates by the per-player sequence number, then
// dispatches by opcode. Each applied mutation bumps the version once and
// is acknowledged with it; duplicates are acknowledged with the version
// recorded when the command first applied.
func (mh *matchHandler) applyCommand(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	uid := msg.GetUserId()

	var probe seqProbe
	if err := json.Unmarshal(msg.GetData(), &probe); err != nil {
		logger.Warn("applyCommand: Malformed payload from %s: %v", uid, err)
		mh.sendError(state, dispatcher, logger, uid, "malformed_command", "payload is not valid JSON")
		return
	}

	if rec, ok := state.LastCmd[uid]; ok && probe.Seq != 0 && probe.Seq <= rec.Seq {
		logger.Debug("applyCommand: Duplicate seq %d from %s, acked version %d", probe.Seq, uid, rec.Version)
		mh.sendAck(state, dispatcher, logger, uid, CommandAck{Version: rec.Version, Seq: rec.Seq, Applied: false})
		return
	}

	applied := false
	switch msg.GetOpCode() {
	case OpStartGame:
		applied = mh.handleStartGame(state, dispatcher, logger, msg)
	case OpPlaceBid:
		applied = mh.handlePlaceBid(state, dispatcher, logger, msg)
	case OpPlayCard:
		applied = mh.handlePlayCard(state, dispatcher, logger, msg)
	case OpRequestSnapshot:
		// Read-only; clients use this to close delivery gaps.
		mh.sendSnapshot(state, dispatcher, logger, uid)
		return
	default:
		logger.Warn("applyCommand: Unknown opcode %d from %s", msg.GetOpCode(), uid)
		mh.sendError(state, dispatcher, logger, uid, "unknown_opcode", "unknown command opcode")
		return
	}

	if applied {
		state.LastCmd[uid] = cmdRecord{Seq: probe.Seq, Version: state.Version}
		mh.sendAck(state, dispatcher, logger, uid, CommandAck{Version: state.Version, Seq: probe.Seq, Applied: true})
	}
}

func (mh *matchHandler) handleStartGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) bool {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	var request StartGameRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("StartGame: Invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, "malformed_command", "invalid start request")
		return false
	}

	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: %s is not the host (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, senderID, "not_host", "only the host may start the game")
		return false
	}
	if state.gameActive() {
		mh.sendError(state, dispatcher, logger, senderID, "game_in_progress", "a game is already running")
		return false
	}

	seats := make([]domain.SeatInfo, 0, app.MaxPlayers)
	for _, uid := range state.Seats {
		if uid == "" {
			continue
		}
		seats = append(seats, domain.SeatInfo{UserID: uid, DisplayName: state.DisplayNames[uid]})
	}

	game, events, err := state.App.StartGame(seats)
	if err != nil {
		logger.Warn("StartGame: Rejected: %v", err)
		code := "too_few_players"
		if err == app.ErrTooManyPlayers {
			code = "too_many_players"
		}
		mh.sendError(state, dispatcher, logger, senderID, code, err.Error())
		return false
	}

	state.Game = game
	state.Version++
	mh.updateLabel(state, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	logger.Info("StartGame: Game %s started with %d players, %d rounds.", game.ID, len(seats), len(game.Schedule))
	return true
}

func (mh *matchHandler) handlePlaceBid(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) bool {
	senderID := msg.GetUserId()
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, senderID, string(domain.ReasonWrongPhase), "no game in progress")
		return false
	}

	var request PlaceBidRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("PlaceBid: Invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, "malformed_command", "invalid bid request")
		return false
	}

	events, err := state.App.PlaceBid(state.Game, senderID, request.Bid)
	if err != nil {
		return mh.rejectOrFail(state, dispatcher, logger, senderID, "PlaceBid", err)
	}

	state.Version++
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	return true
}

func (mh *matchHandler) handlePlayCard(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) bool {
	senderID := msg.GetUserId()
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, senderID, string(domain.ReasonWrongPhase), "no game in progress")
		return false
	}

	var request PlayCardRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("PlayCard: Invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, "malformed_command", "invalid play request")
		return false
	}
	card, err := fromWireCard(request.Card)
	if err != nil {
		logger.Warn("PlayCard: Bad card from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, "malformed_command", err.Error())
		return false
	}

	events, err := state.App.PlayCard(state.Game, senderID, card)
	if err != nil {
		return mh.rejectOrFail(state, dispatcher, logger, senderID, "PlayCard", err)
	}

	state.Version++
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	return true
}

// rejectOrFail reports a validation rejection to the offending client
// only, or escalates an invariant violation: the state can no longer be
// trusted, so the game is marked failed with a full state dump in the
// log, and every player is told.
func (mh *matchHandler) rejectOrFail(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID, op string, err error) bool {
	if domain.IsInvariant(err) {
		dump, _ := json.Marshal(state.Game)
		logger.Error("%s: INVARIANT VIOLATION, game %s marked failed: %v. State dump: %s", op, state.Game.ID, err, dump)
		state.Game.Phase = domain.PhaseFailed
		state.Version++
		evt, _ := json.Marshal(GameFailedEvent{Version: state.Version, Detail: err.Error()})
		dispatcher.BroadcastMessage(OpGameFailed, evt, nil, nil, true)
		mh.updateLabel(state, dispatcher, logger)
		return false
	}

	reason := domain.ReasonOf(err)
	if reason == "" {
		reason = "rejected"
	}
	logger.Warn("%s: Rejected command from %s: %v", op, senderID, err)
	mh.sendError(state, dispatcher, logger, senderID, string(reason), err.Error())
	return false
}

// processTurnTimeout acts for a disconnected on-turn player once the
// configured deadline passes: auto-bid the lowest legal value, or play
// the lowest legal card. Connected players are never auto-acted for.
func (mh *matchHandler) processTurnTimeout(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	timeout := int64(state.Cfg.TurnTimeoutSeconds)
	if timeout <= 0 || state.Game == nil {
		return
	}
	g := state.Game
	if g.Phase != domain.PhaseBidding && g.Phase != domain.PhasePlaying {
		state.TurnKey = ""
		return
	}

	key := string(g.Phase) + ":" + strconv.Itoa(g.CurrentTurnSeat) + ":" + strconv.FormatUint(state.Version, 10)
	if key != state.TurnKey {
		state.TurnKey = key
		state.TurnDeadline = state.Tick + timeout
		return
	}
	if state.Tick < state.TurnDeadline {
		return
	}

	onTurn := g.OnTurnPlayer()
	if onTurn == nil || onTurn.Connected {
		return
	}

	agent := bot.NewAgent(onTurn.UserID)
	var events []app.Event
	var err error
	switch g.Phase {
	case domain.PhaseBidding:
		bid := agent.ChooseBid(g)
		logger.Info("TurnTimeout: Auto-bidding %d for disconnected %s", bid, onTurn.UserID)
		events, err = state.App.PlaceBid(g, onTurn.UserID, bid)
	case domain.PhasePlaying:
		var card domain.Card
		card, err = agent.ChooseCard(g)
		if err == nil {
			logger.Info("TurnTimeout: Auto-playing %s for disconnected %s", card, onTurn.UserID)
			events, err = state.App.PlayCard(g, onTurn.UserID, card)
		}
	}
	if err != nil {
		mh.rejectOrFail(state, dispatcher, logger, onTurn.UserID, "TurnTimeout", err)
		return
	}

	state.Version++
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

// broadcastEvent converts an app event to its wire payload and
// dispatches it, honoring recipient targeting. Delivery is fire and
// forget; a failed delivery never rolls back state.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var payload any

	switch ev.Kind {
	case app.EventGameStarted:
		p := ev.Payload.(app.GameStartedPayload)
		opCode = OpGameStarted
		payload = GameStartedEvent{
			Version:    state.Version,
			GameID:     p.GameID,
			RoundCount: p.RoundCount,
			Players:    toWireSeats(p.Players),
		}
	case app.EventRoundStarted:
		p := ev.Payload.(app.RoundStartedPayload)
		opCode = OpRoundStarted
		payload = RoundStartedEvent{
			Version:       state.Version,
			RoundNumber:   p.RoundNumber,
			HandSize:      p.HandSize,
			TrumpSuit:     int(p.Trump),
			TrumpCard:     toWireCard(p.TrumpCard),
			DealerSeat:    p.DealerSeat,
			FirstTurnSeat: p.FirstTurnSeat,
		}
	case app.EventHandDealt:
		p := ev.Payload.(app.HandDealtPayload)
		opCode = OpHandDealt
		payload = HandDealtEvent{
			Version:     state.Version,
			RoundNumber: p.RoundNumber,
			Hand:        toWireCards(p.Hand),
		}
	case app.EventBidPlaced:
		p := ev.Payload.(app.BidPlacedPayload)
		opCode = OpBidPlaced
		payload = BidPlacedEvent{
			Version:      state.Version,
			UserID:       p.UserID,
			Seat:         p.Seat,
			Bid:          p.Bid,
			NextTurnSeat: p.NextTurnSeat,
			AllBidsIn:    p.AllBidsIn,
		}
	case app.EventCardPlayed:
		p := ev.Payload.(app.CardPlayedPayload)
		opCode = OpCardPlayed
		payload = CardPlayedEvent{
			Version:      state.Version,
			UserID:       p.UserID,
			Seat:         p.Seat,
			Card:         toWireCard(p.Card),
			NextTurnSeat: p.NextTurnSeat,
		}
	case app.EventTrickResolved:
		p := ev.Payload.(app.TrickResolvedPayload)
		opCode = OpTrickResolved
		payload = TrickResolvedEvent{
			Version:      state.Version,
			TrickNumber:  p.TrickNumber,
			WinnerUserID: p.WinnerUserID,
			WinnerSeat:   p.WinnerSeat,
			Plays:        toWirePlays(p.Plays),
		}
	case app.EventRoundScored:
		p := ev.Payload.(app.RoundScoredPayload)
		opCode = OpRoundScored
		payload = RoundScoredEvent{
			Version:     state.Version,
			RoundNumber: p.RoundNumber,
			Scores:      toWireDeltas(p.Deltas),
		}
	case app.EventGameEnded:
		p := ev.Payload.(app.GameEndedPayload)
		opCode = OpGameEnded
		payload = GameEndedEvent{
			Version:      state.Version,
			WinnerUserID: p.WinnerUserID,
			FinalScores:  toWireDeltas(p.FinalScores),
		}
		// Back to lobby; seats survive for a rematch.
		state.Game = nil
		mh.updateLabel(state, dispatcher, logger)
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// All intended recipients are offline; a targeted payload must
		// not leak to the rest of the table.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// sendSnapshot pushes the full redacted game view to a single player.
func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send snapshot to %s: presence not found", userID)
		return
	}

	var view app.SnapshotView
	if state.Game != nil {
		view = app.SnapshotFor(state.Game, userID)
	} else {
		view = app.SnapshotView{Phase: domain.PhaseLobby, Players: mh.lobbySeatViews(state)}
	}

	evt, err := json.Marshal(StateSnapshotEvent{Version: state.Version, Snapshot: toWireSnapshot(view)})
	if err != nil {
		logger.Error("Failed to marshal snapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpStateSnapshot, evt, []runtime.Presence{presence}, nil, true)
}

// lobbySeatViews builds the pre-game seat listing.
func (mh *matchHandler) lobbySeatViews(state *MatchState) []app.SeatView {
	var views []app.SeatView
	for i, uid := range state.Seats {
		if uid == "" {
			continue
		}
		_, connected := state.Presences[uid]
		views = append(views, app.SeatView{
			UserID:      uid,
			DisplayName: state.DisplayNames[uid],
			Seat:        i,
			Connected:   connected,
		})
	}
	return views
}

func (mh *matchHandler) broadcastJoin(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, seat int, reconnect bool) {
	evt, err := json.Marshal(PlayerJoinedEvent{
		Version:     state.Version,
		UserID:      userID,
		DisplayName: state.DisplayNames[userID],
		Seat:        seat,
		Owner:       seat == state.OwnerSeat,
		Reconnect:   reconnect,
	})
	if err != nil {
		logger.Error("Failed to marshal join event: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpPlayerJoined, evt, nil, nil, true)
}

// sendAck confirms command application (or duplication) to the sender.
func (mh *matchHandler) sendAck(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, ack CommandAck) {
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	evt, err := json.Marshal(ack)
	if err != nil {
		logger.Error("Failed to marshal ack: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpCommandAck, evt, []runtime.Presence{presence}, nil, true)
}

// sendError reports a rejected command to the offending client only.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, code, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: presence not found", userID)
		return
	}
	evt, err := json.Marshal(GameErrorEvent{Version: state.Version, Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal error event: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpGameError, evt, []runtime.Presence{presence}, nil, true)
}

func buildLabel(state *MatchState) string {
	phase := string(domain.PhaseLobby)
	if state.Game != nil {
		phase = string(state.Game.Phase)
	}
	labelBytes, _ := json.Marshal(Label{
		Open:  state.GetOpenSeatsCount() > 0 && state.Game == nil,
		Game:  "ohhell",
		Phase: phase,
	})
	return string(labelBytes)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if err := dispatcher.MatchLabelUpdate(buildLabel(state)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

// MatchTerminate is called when the match is shut down.
func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

// MatchSignal is unused.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
