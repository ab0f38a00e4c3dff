// Package display executes timelines against display lists and routes clip
// events to a scripting engine.
package display

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"swfplay/movie"
	"swfplay/script"
	"swfplay/swf/event"
	"swfplay/swf/tag"
)

const rootName = "_root"

var (
	ErrFrameRange   = errors.New("display: frame out of range")
	ErrUnknownLabel = errors.New("display: unknown frame label")
	// ErrRecursiveSprite is recorded when a sprite would be placed inside
	// its own instance chain.
	ErrRecursiveSprite = errors.New("display: sprite placed inside itself")
)

// Options control playback.
type Options struct {
	// Loop restarts the root timeline after its last frame. Sprite
	// timelines always loop.
	Loop bool
	// FireEnterFrame fires enterFrame on every instance after each tick.
	FireEnterFrame bool
}

// Player runs a loaded movie. It is not safe for concurrent use, all
// scripting calls are made synchronously from Advance, GotoFrame and Notify.
type Player struct {
	movie    *movie.Movie
	engine   script.Engine
	opts     Options
	log      *zap.Logger
	root     *Clip
	handles  int
	initDone map[uint16]bool
	issues   error
}

// NewPlayer prepares playback. Nothing is executed until the first Advance.
// A nil engine discards all calls.
func NewPlayer(m *movie.Movie, engine script.Engine, opts Options, log *zap.Logger) *Player {
	if engine == nil {
		engine = script.Func(func(script.Call) error { return nil })
	}
	p := &Player{
		movie:    m,
		engine:   engine,
		opts:     opts,
		log:      log.Named("display"),
		initDone: make(map[uint16]bool),
	}
	p.root = &Clip{player: p, def: m.Root, list: NewList(), path: rootName}
	return p
}

// Root returns the root timeline.
func (p *Player) Root() *Clip {
	return p.root
}

// Frame returns the current 1-based root frame, 0 before the first Advance.
func (p *Player) Frame() int {
	return p.root.frame
}

// Issues returns accumulated playback problems: dropped placements and
// failed scripting calls.
func (p *Player) Issues() error {
	return p.issues
}

// Advance executes one tick: the root timeline moves to its next frame,
// sprite instances which existed before the tick advance their own
// timelines, then enterFrame is fired in depth order when configured.
func (p *Player) Advance() {
	p.root.tick(p.opts.Loop)
	if p.opts.FireEnterFrame {
		p.broadcast(p.root, event.TriggerEnterFrame, 0)
	}
}

// GotoFrame moves the root timeline to a 1-based frame.
func (p *Player) GotoFrame(n int) error {
	return p.root.GotoFrame(n)
}

// GotoLabel moves the root timeline to a labelled frame.
func (p *Player) GotoLabel(label string) error {
	return p.root.GotoLabel(label)
}

// Notify delivers a host event to every instance with a matching binding,
// in depth order, parents before their children. Key code is only used for
// key press. It returns number of calls made.
func (p *Player) Notify(t event.Trigger, key uint8) int {
	if t == event.TriggerInvalid {
		return 0
	}
	return p.broadcast(p.root, t, key)
}

// Find resolves a dotted target path such as "_root.menu.button".
func (p *Player) Find(path string) (*Instance, bool) {
	names := strings.Split(path, ".")
	if names[0] != rootName || len(names) < 2 {
		return nil, false
	}
	var (
		clip = p.root
		inst *Instance
	)
	for _, name := range names[1:] {
		if clip == nil {
			return nil, false
		}
		found, ok := clip.list.ByName(name)
		if !ok {
			return nil, false
		}
		inst, clip = found, found.Clip
	}
	return inst, true
}

func (p *Player) broadcast(c *Clip, t event.Trigger, key uint8) int {
	n := 0
	for _, inst := range c.list.Instances() {
		n += p.fire(inst, t, key)
		if inst.Clip != nil && inst.Attached() {
			n += p.broadcast(inst.Clip, t, key)
		}
	}
	return n
}

func (p *Player) fire(inst *Instance, t event.Trigger, key uint8) int {
	matched := inst.Handlers(t, key)
	for _, b := range matched {
		call := script.Call{Kind: script.CallEvent, Trigger: t, Payload: b.Payload, Target: inst.Path()}
		if t == event.TriggerKeyPress {
			call.KeyCode = key
		}
		p.call(call)
	}
	return len(matched)
}

func (p *Player) call(c script.Call) {
	if err := p.engine.Handle(c); err != nil {
		p.log.Warn("Script call failed", zap.Stringer("call", c), zap.Error(err))
		p.issues = multierr.Append(p.issues, fmt.Errorf("%s: %w", c, err))
	}
}

// runInit hands sprite init actions to the engine before the first instance
// of the sprite is constructed.
func (p *Player) runInit(id uint16, inst *Instance) {
	if p.initDone[id] {
		return
	}
	p.initDone[id] = true
	if actions, ok := p.movie.InitActions[id]; ok {
		p.call(script.Call{Kind: script.CallInit, Payload: actions, Target: inst.Path()})
	}
}

func (p *Player) dropped(err error, log *zap.Logger) {
	log.Warn("Placement dropped", zap.Error(err))
	p.issues = multierr.Append(p.issues, err)
}

// Clip is a running timeline with its own display list: the root movie or a
// sprite instance.
type Clip struct {
	player *Player
	def    *movie.Definition
	list   *List
	frame  int
	path   string
	owner  *Instance
}

// List returns the display list.
func (c *Clip) List() *List {
	return c.list
}

// Frame returns the current 1-based frame, 0 before the first frame ran.
func (c *Clip) Frame() int {
	return c.frame
}

func (c *Clip) FrameCount() int {
	return c.def.FrameCount()
}

func (c *Clip) Path() string {
	return c.path
}

// Owner returns the sprite instance running this timeline, nil for root.
func (c *Clip) Owner() *Instance {
	return c.owner
}

// GotoFrame moves to a 1-based frame. Jumping forward executes display
// records of every frame in between, frame actions run only for the target
// frame. Jumping backward removes timeline instances and replays from the
// first frame. Instances in the script depth zone are not touched.
func (c *Clip) GotoFrame(n int) error {
	if n < 1 || n > c.def.FrameCount() {
		return fmt.Errorf("%w: %d of %d", ErrFrameRange, n, c.def.FrameCount())
	}
	if n == c.frame {
		return nil
	}
	if n < c.frame {
		c.rewind()
	}
	for f := c.frame + 1; f <= n; f++ {
		c.run(f, f == n)
	}
	return nil
}

func (c *Clip) GotoLabel(label string) error {
	n, ok := c.def.FrameByLabel(label)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return c.GotoFrame(n)
}

func (c *Clip) tick(loop bool) {
	var children []*Instance
	for _, inst := range c.list.Instances() {
		if inst.Clip != nil {
			children = append(children, inst)
		}
	}

	count := c.def.FrameCount()
	switch next := c.frame + 1; {
	case next <= count:
		c.run(next, true)
	case loop && count > 1:
		c.rewind()
		c.run(1, true)
	}

	for _, inst := range children {
		// removed or replaced during this frame
		if inst.Attached() {
			inst.Clip.tick(true)
		}
	}
}

// run executes frame n. Display records are applied in order, frame actions
// run after the display list is updated.
func (c *Clip) run(n int, actions bool) {
	c.frame = n
	var queued [][]byte
	for _, rec := range c.def.Frames[n-1].Records {
		switch r := rec.(type) {
		case *tag.Place:
			c.place(r)
		case *tag.Remove:
			c.remove(r.Depth)
		case *tag.Action:
			queued = append(queued, r.Actions)
		}
	}
	if !actions {
		return
	}
	for _, a := range queued {
		c.player.call(script.Call{Kind: script.CallFrame, Payload: a, Target: c.path})
	}
}

func (c *Clip) rewind() {
	for _, inst := range c.list.Instances() {
		if movie.IsTimelineDepth(inst.Depth) {
			c.unload(inst)
		}
	}
	c.frame = 0
}

func (c *Clip) place(r *tag.Place) {
	p := c.player
	log := p.log.With(zap.String("clip", c.path), zap.Int("depth", r.Depth), zap.Stringer("kind", r.Kind))

	switch r.Kind {
	case tag.PlaceKindRemove:
		c.remove(r.Depth)
		return
	case tag.PlaceKindMove:
		inst, ok := c.list.At(r.Depth)
		if !ok {
			log.Warn("Move of empty depth ignored")
			return
		}
		inst.apply(r)
		return
	}

	char, ok := p.movie.Registry.Lookup(r.CharacterID)
	if !ok {
		p.dropped(&movie.ReferenceError{ID: r.CharacterID, What: fmt.Sprintf("%s at depth %d in %s", r.Kind, r.Depth, c.path)}, log)
		return
	}
	if char.IsSprite() && c.nestedIn(char.ID) {
		p.dropped(fmt.Errorf("%w: character %d at depth %d in %s", ErrRecursiveSprite, char.ID, r.Depth, c.path), log)
		return
	}

	inst := &Instance{
		CharacterID:    char.ID,
		Depth:          r.Depth,
		Matrix:         tag.IdentityMatrix,
		ColorTransform: tag.IdentityColorTransform,
		Bindings:       r.Bindings,
	}
	old, occupied := c.list.At(r.Depth)
	switch {
	case r.Kind == tag.PlaceKindReplace && occupied:
		inst.Name = old.Name
		inst.Matrix = old.Matrix
		inst.ColorTransform = old.ColorTransform
		inst.Ratio = old.Ratio
		inst.ClipDepth = old.ClipDepth
	case r.Kind == tag.PlaceKindReplace:
		log.Debug("Replace of empty depth, placing")
	case occupied:
		log.Warn("Depth already occupied, replacing occupant", zap.Int("handle", old.Handle), zap.Uint16("character", old.CharacterID))
	}
	inst.apply(r)
	if r.Has(tag.PlaceHasName) {
		inst.Name = r.Name
	}
	if occupied {
		c.unload(old)
	}
	c.attach(inst, char)
}

// nestedIn reports whether the clip or any clip above it is an instance of
// the sprite id.
func (c *Clip) nestedIn(id uint16) bool {
	for cl := c; cl != nil && cl.owner != nil; cl = cl.owner.parent {
		if cl.owner.CharacterID == id {
			return true
		}
	}
	return false
}

// attach puts a new instance on the list and runs its load sequence:
// sprite init actions, construct, initialize and load bindings, then the
// first frame of a sprite timeline.
func (c *Clip) attach(inst *Instance, char *movie.Character) {
	p := c.player
	p.handles++
	inst.Handle = p.handles
	if len(inst.Name) == 0 {
		inst.Name = fmt.Sprintf("instance%d", inst.Handle)
	}
	inst.parent = c
	c.list.set(inst)

	if char.IsSprite() {
		inst.Clip = &Clip{player: p, def: char.Timeline, list: NewList(), path: inst.Path(), owner: inst}
		p.runInit(char.ID, inst)
	}
	p.fire(inst, event.TriggerConstruct, 0)
	p.fire(inst, event.TriggerInitialize, 0)
	p.fire(inst, event.TriggerLoad, 0)
	if inst.Clip != nil && inst.Clip.FrameCount() > 0 {
		inst.Clip.run(1, true)
	}
}

func (c *Clip) remove(depth int) {
	inst, ok := c.list.At(depth)
	if !ok {
		c.player.log.Debug("Remove of empty depth ignored", zap.String("clip", c.path), zap.Int("depth", depth))
		return
	}
	c.unload(inst)
}

// unload fires unload on the instance and then on its children, takes it
// off the list and drops its bindings.
func (c *Clip) unload(inst *Instance) {
	c.player.fire(inst, event.TriggerUnload, 0)
	if inst.Clip != nil {
		for _, child := range inst.Clip.list.Instances() {
			inst.Clip.unload(child)
		}
	}
	if cur, ok := c.list.At(inst.Depth); ok && cur == inst {
		c.list.delete(inst.Depth)
	}
	inst.Bindings = nil
	inst.parent = nil
}
