// Package profile describes device models as data.
//
// A Profile holds everything the codec needs to know about a model: the
// equalizer band count and offset range, the custom noise canceling bound,
// which sound modes the model accepts and the byte offsets of each field in
// its state update body.
//
// Built-in profiles are embedded YAML files loaded by model number:
//
//	p, err := profile.Load("a3028")
//
// Other models are described by user files with the same schema:
//
//	model: a3951
//	name: Liberty Air 2 Pro
//	equalizer:
//	  bands: 10
//	  min: -60
//	  max: 60
//	noiseCanceling:
//	  max: 10
//	layout:
//	  command: "01 01"
//	  bodyLength: 40
//	  profileId: 0
//	  bands: 2
//	  ambient: 12
//	  noiseCanceling: 13
//	  transparency: 14
//
// Profiles returned by Load are shared and must not be modified.
package profile
