package encoderplan

// Profile names a named quality preset, generalizing a prior
// profileDefault/profilePlexSafe/profileAACCFR/profileVideoOnly/
// profileLowBitrate/profileDashFast/profilePMSXcode constants
// from "client adaptation" to "channel encode
// profile": a channel picks one of these instead of a client negotiating it.
type Profile string

const (
	ProfileDefault    Profile = "default"
	ProfileWebSafe    Profile = "web_safe"
	ProfileAACCFR     Profile = "aac_cfr"
	ProfileVideoOnly  Profile = "video_only"
	ProfileLowBitrate Profile = "low_bitrate"
)

// ProfileOverride is the per-profile tweak applied on top of Settings,
// mirroring a per-profile switch in buildFFmpegMPEGTSCodecArgs.
type ProfileOverride struct {
	VideoBitrateKbps int
	AudioBitrateKbps int
	ForceAudioCodec  string
	ForceAACCFR      bool
	DropVideo        bool
}

var registry = map[Profile]ProfileOverride{
	ProfileDefault:    {},
	ProfileWebSafe:    {VideoBitrateKbps: 4000, AudioBitrateKbps: 128, ForceAudioCodec: "aac"},
	ProfileAACCFR:     {AudioBitrateKbps: 128, ForceAudioCodec: "aac", ForceAACCFR: true},
	ProfileVideoOnly:  {DropVideo: false, ForceAudioCodec: ""},
	ProfileLowBitrate: {VideoBitrateKbps: 1200, AudioBitrateKbps: 96, ForceAudioCodec: "aac"},
}

// Lookup returns the override for a profile, falling back to ProfileDefault
// for an unrecognized name rather than erroring — channel settings data
// predates profile additions and must keep working.
func Lookup(p Profile) ProfileOverride {
	if o, ok := registry[p]; ok {
		return o
	}
	return registry[ProfileDefault]
}
