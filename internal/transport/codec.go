package transport

import (
	"io"

	"github.com/ugorji/go/codec"
)

// mh is the shared msgpack handle used to encode and decode every RPC
// frame. msgpack is the wire format the protocol this ring was
// distilled from used (rpclib / msgpack-rpc), so decoding here with
// ugorji/go/codec keeps the wire format compatible in spirit.
var mh codec.MsgpackHandle

func newEncoder(w io.Writer) *codec.Encoder {
	return codec.NewEncoder(w, &mh)
}

func newDecoder(r io.Reader) *codec.Decoder {
	return codec.NewDecoder(r, &mh)
}
