// Package domain contains the candy entities that flow through the
// generator: the user's request, the intermediate concept returned by the
// text model, and the final candy handed back to callers. It has no
// knowledge of the AI backend or the HTTP layer.
package domain
