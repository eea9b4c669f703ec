// Package builder composes scripts from templates and runs them.
//
// A template is a list of literal fragments with one value between each
// pair. A [Builder] produces the script lazily: an optional head, the
// declarations of its parameters, the body with every value converted by
// its [lang.Language], and an optional foot. The result can be collected
// with [Builder.Content], consumed piecewise with [Builder.Chunks] and
// [Builder.Stream], copied with [Builder.Pipe] or executed by its
// [runner.Runner] with [Builder.Exec] and [Builder.Run].
package builder
