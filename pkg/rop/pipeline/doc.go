// Package pipeline compiles an ordered list of context stages, an optional
// input validator and a terminal handler into one callable Procedure.
//
// A Pipeline is an immutable value: WithStage and WithValidator return new
// pipelines that share the unchanged prefix, so one base pipeline can seed
// many unrelated endpoints.
//
//	base := pipeline.New[Session](pipeline.WithName("posts")).
//		WithStage(authenticate)
//
//	getPost := pipeline.Finalize(base, loadPost)
//	createPost := pipeline.Finalize(
//		pipeline.WithValidator(base, pipeline.FromSchema(postSchema)),
//		storePost)
//
//	env, err := createPost(ctx, pipeline.WithInput(raw))
//
// Calling a Procedure runs the stages in order, then the validator (only when
// input was supplied), then the handler. Errors carrying a code (rop.Coded)
// resolve to a Failure envelope; validation failures always resolve to
// VALIDATION_ERROR; any other error is returned unmodified as the second
// result and no envelope is produced.
package pipeline
