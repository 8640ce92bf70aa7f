package signing

import "testing"

func TestSum_RFC4231(t *testing.T) {
	const want = "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843"
	if got := Sum("Jefe", []byte("what do ya want for nothing?")); got != want {
		t.Fatalf("got %s", got)
	}
}

func TestAppSecretProof(t *testing.T) {
	if AppSecretProof("token", "secret") != Sum("secret", []byte("token")) {
		t.Fatalf("proof should be the HMAC of the token keyed by the secret")
	}
}

func TestVerify(t *testing.T) {
	body := []byte(`{"object":"page"}`)
	sig := Sign("s3cret", body)
	if !Verify("s3cret", body, sig) {
		t.Fatalf("signature should verify")
	}
	cases := []string{"", "sha1=abc", sig + "00", "sha256=" + Sum("other", body)}
	for _, h := range cases {
		if Verify("s3cret", body, h) {
			t.Fatalf("header %q must not verify", h)
		}
	}
	if !Verify("s3cret", body, "sha256="+upperHex(Sum("s3cret", body))) {
		t.Fatalf("hex case must not matter")
	}
}

func upperHex(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'f' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
