package constant

// AsciiArtLogo is the application's banner shown in the root help.
const AsciiArtLogo = `
        _   _         _
  _   _| |_| |__   __| |_ __
 | | | | __| '_ \ / _` + "`" + ` | '_ \
 | |_| | |_| | | | (_| | |_) |
  \__, |\__|_| |_|\__,_| .__/
  |___/                |_|`
