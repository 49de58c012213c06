package coin

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/weavetest/assert"
)

func TestAddCoin(t *testing.T) {
	cases := map[string]struct {
		a       Coin
		b       Coin
		want    Coin
		wantErr *errors.Error
	}{
		"same ticker": {
			a:    NewCoin(20, "ABC"),
			b:    NewCoin(22, "ABC"),
			want: NewCoin(42, "ABC"),
		},
		"negative result": {
			a:    NewCoin(2, "ABC"),
			b:    NewCoin(-5, "ABC"),
			want: NewCoin(-3, "ABC"),
		},
		"different tickers": {
			a:       NewCoin(2, "ABC"),
			b:       NewCoin(2, "XYZ"),
			wantErr: errors.ErrInput,
		},
		"overflow": {
			a:       Coin{Ticker: "ABC", Amount: maxAmountValue()},
			b:       NewCoin(1, "ABC"),
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.a.Add(tc.b)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr == nil && !tc.want.Equals(got) {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCoinSubtract(t *testing.T) {
	got, err := NewCoin(10, "IOV").Subtract(NewCoin(4, "IOV"))
	assert.Nil(t, err)
	assert.Equal(t, NewCoin(6, "IOV"), got)

	if _, err := NewCoin(10, "IOV").Subtract(NewCoin(4, "ETH")); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %v", err)
	}
}

func TestCoinValidate(t *testing.T) {
	cases := map[string]struct {
		c       Coin
		wantErr *errors.Error
	}{
		"valid":             {c: NewCoin(1, "IOV")},
		"four letter":       {c: NewCoin(1, "IOVX")},
		"negative is valid": {c: NewCoin(-1, "IOV")},
		"lowercase ticker":  {c: NewCoin(1, "iov"), wantErr: errors.ErrInput},
		"ticker too short":  {c: NewCoin(1, "IO"), wantErr: errors.ErrInput},
		"ticker too long":   {c: NewCoin(1, "IOVXY"), wantErr: errors.ErrInput},
		"missing ticker":    {c: NewCoin(1, ""), wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.c.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCoinDeserialization(t *testing.T) {
	cases := map[string]struct {
		serialized string
		wantErr    bool
		wantCoin   Coin
	}{
		"object format": {
			serialized: `{"amount": "12", "ticker": "IOV"}`,
			wantCoin:   NewCoin(12, "IOV"),
		},
		"object format, numeric amount": {
			serialized: `{"amount": 12, "ticker": "IOV"}`,
			wantCoin:   NewCoin(12, "IOV"),
		},
		"object format, only ticker": {
			serialized: `{"ticker": "IOV"}`,
			wantCoin:   NewCoin(0, "IOV"),
		},
		"human readable format": {
			serialized: `"1IOV"`,
			wantCoin:   NewCoin(1, "IOV"),
		},
		"human readable format, ticker space separated": {
			serialized: `"1        IOV"`,
			wantCoin:   NewCoin(1, "IOV"),
		},
		"human readable format, negative value": {
			serialized: `"-4 IOV"`,
			wantCoin:   NewCoin(-4, "IOV"),
		},
		"human readable format, beyond 64 bits": {
			serialized: `"36893488147419103232 IOV"`,
			wantCoin:   Coin{Ticker: "IOV", Amount: Amount{Hi: 2}},
		},
		"human readable format, fractional": {
			serialized: `"1.5 IOV"`,
			wantErr:    true,
		},
		"human readable format, only whole": {
			serialized: `"1"`,
			wantErr:    true,
		},
		"human readable format, only ticker": {
			serialized: `"IOV"`,
			wantErr:    true,
		},
		"human readable format, ticker too short": {
			serialized: `"1 AB"`,
			wantErr:    true,
		},
		"human readable format, double negative": {
			serialized: `"--1 IOV"`,
			wantErr:    true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got Coin
			if err := json.Unmarshal([]byte(tc.serialized), &got); err != nil {
				if !tc.wantErr {
					t.Fatalf("cannot unmarshal: %s", err)
				}
				return
			}
			if tc.wantErr {
				t.Fatalf("want error, got %#v", got)
			}
			if !tc.wantCoin.Equals(got) {
				t.Fatalf("unexpected coin result: %#v", got)
			}
		})
	}
}

func TestCoinString(t *testing.T) {
	cases := map[string]struct {
		c    Coin
		want string
	}{
		"zero coin":               {c: Coin{}, want: "0"},
		"zero coin with a ticker": {c: Coin{Ticker: "FOO"}, want: "0 FOO"},
		"fifty IOV":               {c: NewCoin(50, "IOV"), want: "50 IOV"},
		"minus fifty IOV":         {c: NewCoin(-50, "IOV"), want: "-50 IOV"},
		"one without a ticker":    {c: NewCoin(1, ""), want: "1"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.c.String())
		})
	}
}

func TestCoinJSONRoundTrip(t *testing.T) {
	c := NewCoin(-77, "ETH")
	raw, err := json.Marshal(c)
	assert.Nil(t, err)
	assert.Equal(t, `"-77 ETH"`, string(raw))

	var got Coin
	assert.Nil(t, json.Unmarshal(raw, &got))
	assert.Equal(t, c, got)
}

func TestCoinSet(t *testing.T) {
	var c Coin
	assert.Nil(t, c.Set("15 IOV"))
	assert.Equal(t, NewCoin(15, "IOV"), c)
	if err := c.Set("IOV 15"); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %v", err)
	}
}
