package auth

import "github.com/danclocks/cleanjam-sub001/internal/identity"

func Init() {
	gw = identity.Default()
}
