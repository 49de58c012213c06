package gconf

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/store"
	"github.com/iov-one/quickex/weavetest"
	"github.com/iov-one/quickex/weavetest/assert"
)

func TestSaveLoad(t *testing.T) {
	owner := weavetest.RandomAddr(t)

	cases := map[string]struct {
		Conf        *myconfig
		WantSaveErr *errors.Error
	}{
		"all fields": {
			Conf: &myconfig{Owner: owner, Num: 852151421, Str: "foobar", Flag: true},
		},
		"zero values": {
			Conf: &myconfig{Owner: owner},
		},
		"invalid address cannot be saved": {
			Conf:        &myconfig{Owner: quickex.Address("too short")},
			WantSaveErr: errors.ErrInput,
		},
		"negative number cannot be saved": {
			Conf:        &myconfig{Owner: owner, Num: -1},
			WantSaveErr: errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "mypkg", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				if err := Load(db, "mypkg", &myconfig{}); !errors.ErrNotFound.Is(err) {
					t.Fatalf("invalid configuration was written: %v", err)
				}
				return
			}

			var got myconfig
			if err := Load(db, "mypkg", &got); err != nil {
				t.Fatalf("cannot load configuration: %s", err)
			}
			assert.Equal(t, tc.Conf, &got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var c myconfig
	if err := Load(db, "mypkg", &c); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found error, got %v", err)
	}
}

func TestSaveIsScopedByPackage(t *testing.T) {
	db := store.MemStore()
	a := &myconfig{Owner: weavetest.RandomAddr(t), Str: "a"}
	b := &myconfig{Owner: weavetest.RandomAddr(t), Str: "b"}
	assert.Nil(t, Save(db, "first", a))
	assert.Nil(t, Save(db, "second", b))

	var got myconfig
	assert.Nil(t, Load(db, "first", &got))
	assert.Equal(t, a, &got)

	raw, err := db.Get([]byte("_c:second"))
	assert.Nil(t, err)
	if len(raw) == 0 {
		t.Fatal("configuration not stored under the package key")
	}
}

func TestInitConfig(t *testing.T) {
	owner := weavetest.RandomAddr(t)

	cases := map[string]struct {
		Genesis string
		WantErr *errors.Error
		Want    *myconfig
	}{
		"valid configuration": {
			Genesis: `{"conf": {"mypkg": {"owner": "` + hex.EncodeToString(owner) + `", "num": 7, "str": "x"}}}`,
			Want:    &myconfig{Owner: owner, Num: 7, Str: "x"},
		},
		"missing package configuration": {
			Genesis: `{"conf": {"otherpkg": {"num": 7}}}`,
			WantErr: errors.ErrNotFound,
		},
		"missing conf section": {
			Genesis: `{}`,
			WantErr: errors.ErrNotFound,
		},
		"malformed configuration": {
			Genesis: `{"conf": {"mypkg": {"num": "seven"}}}`,
			WantErr: errors.ErrInput,
		},
		"invalid configuration": {
			Genesis: `{"conf": {"mypkg": {"owner": "` + hex.EncodeToString(owner) + `", "num": -4}}}`,
			WantErr: errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts quickex.Options
			if err := json.Unmarshal([]byte(tc.Genesis), &opts); err != nil {
				t.Fatalf("cannot unmarshal genesis: %s", err)
			}
			db := store.MemStore()
			if err := InitConfig(db, opts, "mypkg", &myconfig{}); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.Want != nil {
				var got myconfig
				assert.Nil(t, Load(db, "mypkg", &got))
				assert.Equal(t, tc.Want, &got)
			}
		})
	}
}

type myconfig struct {
	Owner quickex.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/quickex.Address" json:"owner,omitempty"`
	Num   int64           `protobuf:"varint,2,opt,name=num,proto3" json:"num,omitempty"`
	Str   string          `protobuf:"bytes,3,opt,name=str,proto3" json:"str,omitempty"`
	Flag  bool            `protobuf:"varint,4,opt,name=flag,proto3" json:"flag,omitempty"`
}

func (c *myconfig) Reset()                    { *c = myconfig{} }
func (c *myconfig) String() string            { return proto.CompactTextString(c) }
func (*myconfig) ProtoMessage()               {}
func (c *myconfig) GetOwner() quickex.Address { return c.Owner }

func (c *myconfig) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if c.Num < 0 {
		return errors.Wrap(errors.ErrState, "negative number")
	}
	return nil
}
