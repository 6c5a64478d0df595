// Package hearttree renders the heart-tree proposal showcase on Ebitengine.
//
// After a final yes/no choice an emoji burst plays over the screen, then a
// heart made of 150 glowing heart glyphs grows from a single point over a
// field of floating hearts, a faint heart outline and twinkling sparkles.
// The frame is composited through a bloom pass and the sequence ends with a
// message that depends on the answer.
//
// # Quick start
//
//	cfg, err := hearttree.LoadConfig("config.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	app, err := hearttree.NewApp(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	ebiten.RunGame(app)
//
// # Scene graph
//
// Sprites are [Node] values positioned in a right-handed world with Y up,
// viewed by a perspective [Camera] on the +Z axis. Groups translate their
// children and multiply their alpha. Each sprite holds a reference to a
// [Texture]; disposing the sprite releases it.
//
// # Textures
//
// [TextureGenerator] rasterizes glyphs and radial glow dots with gogpu/gg
// and blurs the glyph glow on the GPU. Every call allocates a new texture.
//
// # Animation
//
// A [Timeline] schedules [TweenGroup] values and callbacks at absolute
// offsets. Groups queued for later capture their start values when their
// offset is reached; [TweenGroup.From] sets them immediately instead.
//
// # Frame loop
//
// [Scene.Update] advances one tick of 1/TPS seconds. Bursts and timers run
// from the start; the particle field and the tree only run once
// [Scene.Init] has succeeded. If Init fails the app shows [ApologyText] and
// stops.
//
// # Logging
//
// Nothing is logged until [SetLogger] is called. Frame stats are logged at
// debug level when the scene runs in debug mode.
package hearttree
