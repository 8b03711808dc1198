// Package survey holds the request lifecycle store for survey generation.
//
// A Store mirrors one logical "generate" operation into fields a consumer
// can render: Pending, ErrorMessage, Result, Editing and LastInput. It is
// constructed explicitly and passed to whatever needs it; there is no
// package-level instance.
//
// # Lifecycle
//
//	Idle -> Pending -> Success
//	                -> Failed
//
// Success and Failed persist until the next Generate or Reset. After any
// settled call exactly one of Result and ErrorMessage is set.
//
// # Usage Example
//
//	store := survey.NewStore(api.NewClient(baseURL))
//
//	unsubscribe := store.Subscribe(func(s survey.State) {
//	    fmt.Println("phase:", s.Phase())
//	})
//	defer unsubscribe()
//
//	doc, err := store.Generate(ctx, "a customer satisfaction survey")
//	if err != nil {
//	    // store.State().ErrorMessage holds the same message
//	}
//	fmt.Println(doc.Title())
//
//	doc, err = store.Regenerate(ctx) // same requirement again
//
// # Overlapping Calls
//
// Each Generate takes ownership of the state when it starts. If a newer
// Generate (or a Reset) happens before an older call settles, the older
// call's outcome is returned to its own caller but not written to the
// state, and it does not clear Pending for the newer call.
package survey
