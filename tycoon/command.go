package tycoon

// CommandLogin is the only inbound command. It must match the frame payload
// exactly; anything else sent before it is rejected and anything sent after
// it is ignored.
const CommandLogin = "login"

// LoginRequiredReason is sent back for every frame received before login.
const LoginRequiredReason = "You must login before continuing"
