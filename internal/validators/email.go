package validators

import (
	"context"
	"net"
	"regexp"
	"strings"
	"time"
)

const domainLookupTimeout = 3 * time.Second

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsEmail is a shape check only: local@domain.tld.
func IsEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsEmailDomainValid reports whether the domain of email resolves to a
// mail exchanger or, failing that, to any address. Used only when
// VALIDATE_EMAIL_DOMAIN is on, since it goes to the network.
func IsEmailDomainValid(email string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), domainLookupTimeout)
	defer cancel()
	return domainResolves(ctx, net.DefaultResolver, emailDomain(email))
}

// emailDomain returns the part after the last '@', or "".
func emailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return ""
	}
	return strings.TrimSuffix(email[at+1:], ".")
}

type hostResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

func domainResolves(ctx context.Context, r hostResolver, domain string) bool {
	if domain == "" {
		return false
	}
	if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	addrs, err := r.LookupHost(ctx, domain)
	return err == nil && len(addrs) > 0
}
