package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"ohhell/internal/app"
	"ohhell/internal/bot"
	"ohhell/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// mockPresence implements runtime.Presence.
type mockPresence struct {
	userID   string
	username string
}

func (p mockPresence) GetUserId() string    { return p.userID }
func (p mockPresence) GetSessionId() string { return "session-" + p.userID }
func (p mockPresence) GetNodeId() string    { return "node-1" }
func (p mockPresence) GetHidden() bool      { return false }
func (p mockPresence) GetPersistence() bool { return true }
func (p mockPresence) GetUsername() string  { return p.username }
func (p mockPresence) GetStatus() string    { return "" }
func (p mockPresence) GetReason() runtime.PresenceReason {
	return runtime.PresenceReasonUnknown
}

// mockMatchData wraps a command payload as delivered to the match loop.
type mockMatchData struct {
	mockPresence
	opCode int64
	data   []byte
}

func (m mockMatchData) GetOpCode() int64      { return m.opCode }
func (m mockMatchData) GetData() []byte       { return m.data }
func (m mockMatchData) GetReliable() bool     { return true }
func (m mockMatchData) GetReceiveTime() int64 { return 0 }

type broadcastRec struct {
	opCode     int64
	data       []byte
	recipients []runtime.Presence
}

// recordDispatcher records match dispatcher calls for assertions.
type recordDispatcher struct {
	broadcasts []broadcastRec
	labels     []string
}

func (rd *recordDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	rd.broadcasts = append(rd.broadcasts, broadcastRec{
		opCode:     opCode,
		data:       append([]byte(nil), data...),
		recipients: presences,
	})
	return nil
}

func (rd *recordDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (rd *recordDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (rd *recordDispatcher) MatchLabelUpdate(label string) error {
	rd.labels = append(rd.labels, label)
	return nil
}

func (rd *recordDispatcher) ofOp(opCode int64) []broadcastRec {
	var out []broadcastRec
	for _, b := range rd.broadcasts {
		if b.opCode == opCode {
			out = append(out, b)
		}
	}
	return out
}

// matchTest drives the handler the way Nakama would: every command goes
// through MatchLoop at an advancing tick.
type matchTest struct {
	t     *testing.T
	mh    *matchHandler
	state *MatchState
	disp  *recordDispatcher
	tick  int64
	seqs  map[string]uint64
}

func newMatchTest(t *testing.T, players int, params map[string]interface{}) *matchTest {
	t.Helper()
	mh := &matchHandler{}
	raw, _, _ := mh.MatchInit(context.Background(), noopLogger{}, nil, nil, params)
	state := raw.(*MatchState)
	// Seed the shuffle so driven games are reproducible.
	state.App = app.NewService(rand.New(rand.NewSource(11)), state.Cfg)

	disp := &recordDispatcher{}
	mt := &matchTest{t: t, mh: mh, state: state, disp: disp, seqs: make(map[string]uint64)}

	presences := make([]runtime.Presence, players)
	for i := range presences {
		presences[i] = mt.presenceFor(fmt.Sprintf("user-%d", i))
	}
	mt.join(presences...)
	return mt
}

func (mt *matchTest) presenceFor(uid string) mockPresence {
	return mockPresence{userID: uid, username: "name-" + uid}
}

func (mt *matchTest) join(presences ...runtime.Presence) {
	out := mt.mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, mt.disp, mt.tick, mt.state, presences)
	mt.state = out.(*MatchState)
}

func (mt *matchTest) leave(uids ...string) {
	presences := make([]runtime.Presence, len(uids))
	for i, uid := range uids {
		presences[i] = mt.presenceFor(uid)
	}
	out := mt.mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, mt.disp, mt.tick, mt.state, presences)
	if out == nil {
		mt.state = nil
		return
	}
	mt.state = out.(*MatchState)
}

func (mt *matchTest) loopAt(tick int64) {
	mt.tick = tick
	out := mt.mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, mt.disp, mt.tick, mt.state, nil)
	mt.state = out.(*MatchState)
}

func (mt *matchTest) sendRaw(uid string, opCode int64, payload interface{}) {
	mt.t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		mt.t.Fatalf("marshal payload: %v", err)
	}
	mt.tick++
	msg := mockMatchData{mockPresence: mt.presenceFor(uid), opCode: opCode, data: data}
	out := mt.mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, mt.disp, mt.tick, mt.state, []runtime.MatchData{msg})
	mt.state = out.(*MatchState)
}

func (mt *matchTest) nextSeq(uid string) uint64 {
	mt.seqs[uid]++
	return mt.seqs[uid]
}

func (mt *matchTest) owner() string {
	return mt.state.Seats[mt.state.OwnerSeat]
}

func (mt *matchTest) startGame() {
	mt.t.Helper()
	uid := mt.owner()
	mt.sendRaw(uid, OpStartGame, StartGameRequest{Seq: mt.nextSeq(uid)})
	if mt.state.Game == nil {
		mt.t.Fatal("game did not start")
	}
}

// finishBidding drives legal bids for every seat using the default agent.
func (mt *matchTest) finishBidding() {
	mt.t.Helper()
	for steps := 0; mt.state.Game.Phase == domain.PhaseBidding; steps++ {
		if steps > app.MaxPlayers {
			mt.t.Fatal("bidding did not finish")
		}
		uid := mt.state.Game.OnTurnPlayer().UserID
		bid := bot.NewAgent(uid).ChooseBid(mt.state.Game)
		mt.sendRaw(uid, OpPlaceBid, PlaceBidRequest{Seq: mt.nextSeq(uid), Bid: bid})
	}
}

func defaultParams() map[string]interface{} {
	return map[string]interface{}{
		"round_schedule":       []interface{}{2},
		"turn_timeout_seconds": 0,
	}
}

func TestMatchJoinSeating(t *testing.T) {
	mt := newMatchTest(t, 3, defaultParams())

	if got := mt.state.GetOccupiedSeatCount(); got != 3 {
		t.Fatalf("occupied seats = %d, want 3", got)
	}
	if mt.state.OwnerSeat != 0 || mt.owner() != "user-0" {
		t.Fatalf("owner seat = %d (%s), want 0 (user-0)", mt.state.OwnerSeat, mt.owner())
	}
	if mt.state.DisplayNames["user-1"] != "name-user-1" {
		t.Fatalf("display name = %q, want from presence username", mt.state.DisplayNames["user-1"])
	}
	if got := len(mt.disp.ofOp(OpPlayerJoined)); got != 3 {
		t.Fatalf("join broadcasts = %d, want 3", got)
	}
	// Each joiner receives a lobby snapshot addressed only to them.
	snaps := mt.disp.ofOp(OpStateSnapshot)
	if len(snaps) != 3 {
		t.Fatalf("snapshot sends = %d, want 3", len(snaps))
	}
	for _, s := range snaps {
		if len(s.recipients) != 1 {
			t.Fatalf("snapshot sent to %d recipients, want 1", len(s.recipients))
		}
	}
	if len(mt.disp.labels) == 0 {
		t.Fatal("no label update after joins")
	}
}

func TestMatchJoinAttempt(t *testing.T) {
	mt := newMatchTest(t, app.MaxPlayers, defaultParams())

	// A seated player may always rejoin.
	_, allowed, _ := mt.mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, mt.disp, mt.tick, mt.state, mt.presenceFor("user-0"), nil)
	if !allowed {
		t.Fatal("seated player denied rejoin")
	}

	_, allowed, reason := mt.mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, mt.disp, mt.tick, mt.state, mt.presenceFor("extra"), nil)
	if allowed || reason != "match_full" {
		t.Fatalf("full table join = (%v, %q), want denied match_full", allowed, reason)
	}
}

func TestMatchJoinAttemptMidGame(t *testing.T) {
	mt := newMatchTest(t, 3, defaultParams())
	mt.startGame()

	_, allowed, reason := mt.mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, mt.disp, mt.tick, mt.state, mt.presenceFor("latecomer"), nil)
	if allowed || reason != "match_in_progress" {
		t.Fatalf("mid-game join = (%v, %q), want denied match_in_progress", allowed, reason)
	}
}

func TestStartGameRequiresHost(t *testing.T) {
	mt := newMatchTest(t, 3, defaultParams())

	mt.sendRaw("user-1", OpStartGame, StartGameRequest{Seq: mt.nextSeq("user-1")})
	if mt.state.Game != nil {
		t.Fatal("non-host started the game")
	}
	errs := mt.disp.ofOp(OpGameError)
	if len(errs) != 1 {
		t.Fatalf("error sends = %d, want 1", len(errs))
	}
	var ge GameErrorEvent
	if err := json.Unmarshal(errs[0].data, &ge); err != nil {
		t.Fatalf("unmarshal error event: %v", err)
	}
	if ge.Code != "not_host" {
		t.Fatalf("error code = %q, want not_host", ge.Code)
	}
	if len(errs[0].recipients) != 1 || errs[0].recipients[0].GetUserId() != "user-1" {
		t.Fatal("error not targeted at the offending client")
	}
}

func TestStartGameBroadcasts(t *testing.T) {
	mt := newMatchTest(t, 3, defaultParams())
	mt.startGame()

	if mt.state.Game.Phase != domain.PhaseBidding {
		t.Fatalf("phase = %s, want %s", mt.state.Game.Phase, domain.PhaseBidding)
	}
	if got := len(mt.disp.ofOp(OpGameStarted)); got != 1 {
		t.Fatalf("game started broadcasts = %d, want 1", got)
	}
	if got := len(mt.disp.ofOp(OpRoundStarted)); got != 1 {
		t.Fatalf("round started broadcasts = %d, want 1", got)
	}

	// One ack to the host, carrying the post-start version.
	acks := mt.disp.ofOp(OpCommandAck)
	if len(acks) != 1 {
		t.Fatalf("acks = %d, want 1", len(acks))
	}
	var ack CommandAck
	if err := json.Unmarshal(acks[0].data, &ack); err != nil {
		t.Fatalf("unmarshal ack: %v", err)
	}
	if !ack.Applied || ack.Version != mt.state.Version {
		t.Fatalf("ack = %+v, want applied at version %d", ack, mt.state.Version)
	}
}

func TestHandDealtPrivacy(t *testing.T) {
	mt := newMatchTest(t, 3, defaultParams())
	mt.startGame()

	hands := mt.disp.ofOp(OpHandDealt)
	if len(hands) != 3 {
		t.Fatalf("hand sends = %d, want one per player", len(hands))
	}
	seen := make(map[string]bool)
	for _, h := range hands {
		if len(h.recipients) != 1 {
			t.Fatalf("hand event sent to %d recipients, want 1", len(h.recipients))
		}
		uid := h.recipients[0].GetUserId()
		if seen[uid] {
			t.Fatalf("player %s received two hand events", uid)
		}
		seen[uid] = true

		var he HandDealtEvent
		if err := json.Unmarshal(h.data, &he); err != nil {
			t.Fatalf("unmarshal hand event: %v", err)
		}
		want := mt.state.Game.PlayerByID(uid).Hand
		if len(he.Hand) != len(want) {
			t.Fatalf("hand event for %s has %d cards, want %d", uid, len(he.Hand), len(want))
		}
	}
}

func TestDuplicateCommandAckedWithoutReplay(t *testing.T) {
	mt := newMatchTest(t, 3, defaultParams())
	mt.startGame()

	uid := mt.state.Game.OnTurnPlayer().UserID
	bid := bot.NewAgent(uid).ChooseBid(mt.state.Game)
	req := PlaceBidRequest{Seq: mt.nextSeq(uid), Bid: bid}

	mt.sendRaw(uid, OpPlaceBid, req)
	versionAfter := mt.state.Version
	bidsAfter := len(mt.disp.ofOp(OpBidPlaced))
	if bidsAfter != 1 {
		t.Fatalf("bid broadcasts = %d, want 1", bidsAfter)
	}

	// Same command redelivered: no new state, no new broadcast, an ack
	// carrying the original version.
	mt.sendRaw(uid, OpPlaceBid, req)
	if mt.state.Version != versionAfter {
		t.Fatalf("version after duplicate = %d, want unchanged %d", mt.state.Version, versionAfter)
	}
	if got := len(mt.disp.ofOp(OpBidPlaced)); got != bidsAfter {
		t.Fatalf("bid broadcasts after duplicate = %d, want %d", got, bidsAfter)
	}

	acks := mt.disp.ofOp(OpCommandAck)
	var last CommandAck
	if err := json.Unmarshal(acks[len(acks)-1].data, &last); err != nil {
		t.Fatalf("unmarshal ack: %v", err)
	}
	if last.Applied {
		t.Fatal("duplicate command reported as applied")
	}
	if last.Version != versionAfter || last.Seq != req.Seq {
		t.Fatalf("duplicate ack = %+v, want version %d seq %d", last, versionAfter, req.Seq)
	}
}

func TestRejectedCommandLeavesVersionUnchanged(t *testing.T) {
	mt := newMatchTest(t, 3, defaultParams())
	mt.startGame()

	onTurn := mt.state.Game.OnTurnPlayer().UserID
	var offTurn string
	for _, uid := range mt.state.Seats {
		if uid != "" && uid != onTurn {
			offTurn = uid
			break
		}
	}

	before := mt.state.Version
	mt.sendRaw(offTurn, OpPlaceBid, PlaceBidRequest{Seq: mt.nextSeq(offTurn), Bid: 0})
	if mt.state.Version != before {
		t.Fatalf("version after rejection = %d, want unchanged %d", mt.state.Version, before)
	}

	errs := mt.disp.ofOp(OpGameError)
	if len(errs) != 1 {
		t.Fatalf("error sends = %d, want 1", len(errs))
	}
	var ge GameErrorEvent
	if err := json.Unmarshal(errs[len(errs)-1].data, &ge); err != nil {
		t.Fatalf("unmarshal error event: %v", err)
	}
	if ge.Code != string(domain.ReasonOutOfTurn) {
		t.Fatalf("error code = %q, want %q", ge.Code, domain.ReasonOutOfTurn)
	}
}

func TestReconnectReceivesSnapshot(t *testing.T) {
	mt := newMatchTest(t, 3, defaultParams())
	mt.startGame()

	mt.leave("user-1")
	if mt.state.seatOf("user-1") < 0 {
		t.Fatal("mid-game leave freed the seat")
	}
	if mt.state.Game.PlayerByID("user-1").Connected {
		t.Fatal("player still marked connected after leave")
	}

	snapsBefore := len(mt.disp.ofOp(OpStateSnapshot))
	mt.join(mt.presenceFor("user-1"))
	if !mt.state.Game.PlayerByID("user-1").Connected {
		t.Fatal("player not reconnected")
	}

	snaps := mt.disp.ofOp(OpStateSnapshot)
	if len(snaps) != snapsBefore+1 {
		t.Fatalf("snapshot sends = %d, want %d", len(snaps), snapsBefore+1)
	}
	last := snaps[len(snaps)-1]
	if len(last.recipients) != 1 || last.recipients[0].GetUserId() != "user-1" {
		t.Fatal("reconnect snapshot not targeted at the rejoining player")
	}

	var evt StateSnapshotEvent
	if err := json.Unmarshal(last.data, &evt); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	ownHand := mt.state.Game.PlayerByID("user-1").Hand
	if len(evt.Snapshot.Hand) != len(ownHand) {
		t.Fatalf("snapshot hand = %d cards, want %d", len(evt.Snapshot.Hand), len(ownHand))
	}
	for _, seat := range evt.Snapshot.Players {
		want := len(mt.state.Game.PlayerByID(seat.UserID).Hand)
		if seat.CardsHeld != want {
			t.Fatalf("seat %d cards_held = %d, want %d", seat.Seat, seat.CardsHeld, want)
		}
	}
}

func TestLobbyLeaveFreesSeat(t *testing.T) {
	mt := newMatchTest(t, 3, defaultParams())

	mt.leave("user-2")
	if mt.state.seatOf("user-2") >= 0 {
		t.Fatal("lobby leave retained the seat")
	}
	if _, ok := mt.state.DisplayNames["user-2"]; ok {
		t.Fatal("display name retained after lobby leave")
	}
	if got := len(mt.disp.ofOp(OpPlayerLeft)); got != 1 {
		t.Fatalf("left broadcasts = %d, want 1", got)
	}

	// Losing the last presence terminates the match.
	mt.leave("user-0", "user-1")
	if mt.state != nil {
		t.Fatal("match state retained with no connected players")
	}
}

func TestOwnerReassignedOnLeave(t *testing.T) {
	mt := newMatchTest(t, 3, defaultParams())
	if mt.owner() != "user-0" {
		t.Fatalf("initial owner = %s, want user-0", mt.owner())
	}
	mt.leave("user-0")
	if mt.owner() != "user-1" {
		t.Fatalf("owner after leave = %s, want user-1", mt.owner())
	}
}

func TestTurnTimeoutAutoBids(t *testing.T) {
	mt := newMatchTest(t, 3, map[string]interface{}{
		"round_schedule":       []interface{}{2},
		"turn_timeout_seconds": 2,
	})
	mt.startGame()

	onTurn := mt.state.Game.OnTurnPlayer()
	mt.leave(onTurn.UserID)

	// First idle tick arms the deadline; it fires two ticks later.
	mt.loopAt(100)
	if len(mt.disp.ofOp(OpBidPlaced)) != 0 {
		t.Fatal("auto-bid fired before the deadline")
	}
	mt.loopAt(101)
	mt.loopAt(102)

	bids := mt.disp.ofOp(OpBidPlaced)
	if len(bids) != 1 {
		t.Fatalf("auto-bid broadcasts = %d, want 1", len(bids))
	}
	var bp BidPlacedEvent
	if err := json.Unmarshal(bids[0].data, &bp); err != nil {
		t.Fatalf("unmarshal bid event: %v", err)
	}
	if bp.UserID != onTurn.UserID {
		t.Fatalf("auto-bid for %s, want disconnected %s", bp.UserID, onTurn.UserID)
	}
	if !mt.state.Game.PlayerByID(onTurn.UserID).BidSet {
		t.Fatal("auto-bid not applied to game state")
	}
	if mt.state.Game.CurrentTurnSeat == onTurn.Seat {
		t.Fatal("turn did not advance after auto-bid")
	}
}

func TestTurnTimeoutSkipsConnectedPlayers(t *testing.T) {
	mt := newMatchTest(t, 3, map[string]interface{}{
		"round_schedule":       []interface{}{2},
		"turn_timeout_seconds": 2,
	})
	mt.startGame()

	mt.loopAt(100)
	mt.loopAt(105)
	if len(mt.disp.ofOp(OpBidPlaced)) != 0 {
		t.Fatal("auto-bid fired for a connected player")
	}
}

func TestInvariantViolationFailsGame(t *testing.T) {
	mt := newMatchTest(t, 3, map[string]interface{}{
		"round_schedule":       []interface{}{1},
		"turn_timeout_seconds": 0,
	})
	mt.startGame()
	mt.finishBidding()

	// Lose a stock card so conservation breaks when the trick completes.
	mt.state.Game.Round.Stock = mt.state.Game.Round.Stock[1:]

	for steps := 0; mt.state.Game.Phase == domain.PhasePlaying; steps++ {
		if steps > app.MaxPlayers {
			t.Fatal("round did not complete")
		}
		uid := mt.state.Game.OnTurnPlayer().UserID
		card, err := bot.NewAgent(uid).ChooseCard(mt.state.Game)
		if err != nil {
			t.Fatalf("ChooseCard() error = %v", err)
		}
		mt.sendRaw(uid, OpPlayCard, PlayCardRequest{Seq: mt.nextSeq(uid), Card: toWireCard(card)})
	}

	if mt.state.Game.Phase != domain.PhaseFailed {
		t.Fatalf("phase = %s, want %s", mt.state.Game.Phase, domain.PhaseFailed)
	}
	failed := mt.disp.ofOp(OpGameFailed)
	if len(failed) != 1 {
		t.Fatalf("failure broadcasts = %d, want 1", len(failed))
	}
	var gf GameFailedEvent
	if err := json.Unmarshal(failed[0].data, &gf); err != nil {
		t.Fatalf("unmarshal failure event: %v", err)
	}
	if gf.Detail == "" {
		t.Fatal("failure event carries no detail")
	}

	// The dead game accepts no further commands.
	before := mt.state.Version
	uid := mt.state.Seats[0]
	mt.sendRaw(uid, OpPlaceBid, PlaceBidRequest{Seq: mt.nextSeq(uid), Bid: 0})
	if mt.state.Version != before {
		t.Fatal("failed game applied a command")
	}
}

func TestRequestSnapshotOnDemand(t *testing.T) {
	mt := newMatchTest(t, 3, defaultParams())
	mt.startGame()

	before := len(mt.disp.ofOp(OpStateSnapshot))
	version := mt.state.Version
	mt.sendRaw("user-2", OpRequestSnapshot, seqProbe{Seq: mt.nextSeq("user-2")})

	if got := len(mt.disp.ofOp(OpStateSnapshot)); got != before+1 {
		t.Fatalf("snapshot sends = %d, want %d", got, before+1)
	}
	if mt.state.Version != version {
		t.Fatal("read-only snapshot request bumped the version")
	}
}

func TestBuildLabel(t *testing.T) {
	mt := newMatchTest(t, 3, defaultParams())

	var label Label
	if err := json.Unmarshal([]byte(buildLabel(mt.state)), &label); err != nil {
		t.Fatalf("unmarshal label: %v", err)
	}
	if !label.Open || label.Game != "ohhell" || label.Phase != string(domain.PhaseLobby) {
		t.Fatalf("lobby label = %+v", label)
	}

	mt.startGame()
	if err := json.Unmarshal([]byte(buildLabel(mt.state)), &label); err != nil {
		t.Fatalf("unmarshal label: %v", err)
	}
	if label.Open || label.Phase != string(domain.PhaseBidding) {
		t.Fatalf("mid-game label = %+v", label)
	}
}
