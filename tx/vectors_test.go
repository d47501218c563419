package tx

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libbtc-go/script"
)

// Mainnet P2PKH spend 452c629d67e41baec3ac6f04fe744b4b9617f8f859c63b3002f8684e7a4fee03.
const legacyTxHex = "0100000001813f79011acb80925dfe69b3def355fe914bd1d96a3f5f71bf8303c6a989c7d1000000006b483045022100ed81ff192e75a3fd2304004dcadb746fa5e24c5031ccfcf21320b0277457c98f02207a986d955c6e0cb35d446a89d3f56100f4d7f67801c31967743a9c8e10615bed01210349fc4e631e3624a545de3f89f5d8684c7b8138bd94bdd531d2e213bf016b278afeffffff02a135ef01000000001976a914bc3b654dca7e56b04dca18f2566cdaf02e8d9ada88ac99c39800000000001976a9141c4bc762dd5423e332166702cb75f40df79fea1288ac19430600"

// The output legacyTxHex spends.
const (
	legacyPrevTxID   = "d1c789a9c60383bf715f3f6ad9d14b91fe55f3deb369fe5d9280cb1a01793f81"
	legacyPrevAmount = 42505594
	legacyPrevScript = "76a914a802fc56c704ce87c42d7c92eb75e7896bdc41ae88ac"
)

const multiInputTxHex = "010000000456919960ac691763688d3d3bcea9ad6ecaf875df5339e148a1fc61c6ed7a069e010000006a47304402204585bcdef85e6b1c6af5c2669d4830ff86e42dd205c0e089bc2a821657e951c002201024a10366077f87d6bce1f7100ad8cfa8a064b39d4e8fe4ea13a7b71aa8180f012102f0da57e85eec2934a82a585ea337ce2f4998b50ae699dd79f5880e253dafafb7feffffffeb8f51f4038dc17e6313cf831d4f02281c2a468bde0fafd37f1bf882729e7fd3000000006a47304402207899531a52d59a6de200179928ca900254a36b8dff8bb75f5f5d71b1cdc26125022008b422690b8461cb52c3cc30330b23d574351872b7c361e9aae3649071c1a7160121035d5c93d9ac96881f19ba1f686f15f009ded7c62efe85a872e6a19b43c15a2937feffffff567bf40595119d1bb8a3037c356efd56170b64cbcc160fb028fa10704b45d775000000006a47304402204c7c7818424c7f7911da6cddc59655a70af1cb5eaf17c69dadbfc74ffa0b662f02207599e08bc8023693ad4e9527dc42c34210f7a7d1d1ddfc8492b654a11e7620a0012102158b46fbdff65d0172b7989aec8850aa0dae49abfb84c81ae6e5b251a58ace5cfeffffffd63a5e6c16e620f86f375925b21cabaf736c779f88fd04dcad51d26690f7f345010000006a47304402200633ea0d3314bea0d95b3cd8dadb2ef79ea8331ffe1e61f762c0f6daea0fabde022029f23b3e9c30f080446150b23852028751635dcee2be669c2a1686a4b5edf304012103ffd6f4a67e94aba353a00882e563ff2722eb4cff0ad6006e86ee20dfe7520d55feffffff0251430f00000000001976a914ab0c0b2e98b1ab6dbf67d4750b0a56244948a87988ac005a6202000000001976a9143c82d7df364eb6c75be8c80df2b3eda8db57397088ac46430600"

// Segwit transactions with their txid and wtxid.
var segwitVectors = []struct {
	name  string
	raw   string
	id    string
	wtxid string
}{
	{
		name:  "p2wpkh change",
		raw:   "020000000001011c20e4848e7992a8c23deff629105174d36286234429b4f6878a52a14c87931a0100000000fdffffff02cf21180000000000160014853ec3166860371ee67b7754ff85e13d7a0d669850330500000000001976a914fc71e34a661ea03b46b4e2414dac463d3328e12188ac02473044022007b6e8bb9f1cc0e3526ae158cfbd663debf56826249c3439f8967a0a7dd4244a022004dac7a6d79f37283ca739b2ec4ed502ec208eb05287fdc2a2a6df1ca83c10d0012103e5e444515d5566e7def1332d7dded8755ed9a2f1c8c968a3de1e72369a2ae7603d600a00",
		id:    "39cc1562b197182429bc1ea312c9e30f1257be6d5159fcd7b375139d3c3fe63c",
		wtxid: "c24f502ef4e47b6331066c0cd858383ad91d55de25d0de2193713443ec2df7c8",
	},
	{
		name:  "p2wpkh testnet",
		raw:   "0100000000010115e180dc28a2327e687facc33f10f2a20da717e5548406f7ae8b4c811072f8560100000000ffffffff0100b4f505000000001976a9141d7cd6c75c2e86f4cbf98eaed221b30bd9a0b92888ac02483045022100df7b7e5cda14ddf91290e02ea10786e03eb11ee36ec02dd862fe9a326bbcb7fd02203f5b4496b667e6e281cc654a2da9e4f08660c620a1051337fa8965f727eb19190121038262a6c6cec93c2d3ecd6c6072efea86d02ff8e3328bbd0242b20af3425990ac00000000",
		id:    "d869f854e1f8788bcff294cc83b280942a8c728de71eb709a2c29d10bfe21b7c",
		wtxid: "976015741ba2fc60804dd63167326b1a1f7e94af2b66f4a0fd95b38c18ee729b",
	},
	{
		name:  "two p2wpkh outputs",
		raw:   "02000000000101477d4a9123b137d3b31293706be757bbc654f806df128dcf9fb0579097dd75920000000000fdffffff020cf6000000000000160014c33e63a8dbdcc8250d80a4b2aab51c68ebce04ffdc6cea4c00000000160014192e80ed2c7c412bdc2a6c8f371d15cb90f3c85b02473044022079deccd3f44f8a8690a6df844e6b1c4357796eb292c46cf23c394faf8388814d02206a362276932c0b2e6265464b7566434732ed63b8dd0c0f97a85e6b6c14b8d2a3012103b01bd095f648ea829f000207087f16622431077bb5cc0875225ada601375c88500000000",
		id:    "a894b5961f3258ac3f14a9ea3698a7db6537b393687a92bb42e54521d9d34d4e",
		wtxid: "91b24afe5af5b9aeb0dc13dbbd682720c98aa56eb97e1514328581d8b0bb31e0",
	},
	{
		name:  "p2sh-p2wsh multisig",
		raw:   "01000000000101ce0840aa3e0ace82c6fe2b7c3b4893ad6e8cc2c28f5d89447cfdab0f980770c50000000023220020973cfd44e60501c38320ab1105fb3ee3916d2952702e3c8cb4cbb7056aa6b47fffffffff01d1fb0000000000001976a914142b5b5e77897361be0a40032db2fbb6b28973f488ac0400473044022047ebba593cba4048da04316b9fb6c076d95d17175d7560edc93868a7d170767502203d0ce939ae462ca685a15f5fd3a64b7a1793cb10473665d5bedd3322c55a2b1001473044022022a8a0ae1f80934abb38d4f8c3febf6f5c5c43e7e70460aa71f9a895aaea4d950220023b8f4d2fd90abdbe6f80c9bcb2b38c7326e5e9e0f3b1ea25a5499d240cacb20169522103591da02bf7c80dc5d0edee4bbbfad7e58320785e3e54d4dab117152361f7002c21027ea2bc65ce49dcd748e4e41a0c8881be388b9182ad5e47579a0de0119803827b2103c5fdaf887f76119a73a7f738d5d4a451ff07bbbc83422c529452d8a36ae59e3953ae00000000",
		id:    "55c7c71c63b87478cd30d401e7ca5344a2e159dc8d6990df695c7e0cb2f82783",
		wtxid: "75fd722f95aaa5426c99f352b9803a73d5a92c7a838d7384bcd33c2aa0f63b97",
	},
}

// Coinbase of block 465879.
const coinbaseTxHex = "01000000010000000000000000000000000000000000000000000000000000000000000000ffffffff5e03d71b07254d696e656420627920416e74506f6f6c20626a31312f4542312f4144362f43205914293101fabe6d6d678e2c8c34afc36896e7d9402824ed38e856676ee94bfdb0c6c4bcd8b2e5666a0400000000000000c7270000a5e00e00ffffffff01faf20b58000000001976a914338c84849423992471bffb1a54a8d9b1d69dc28a88ac00000000"

// BIP143 native P2WPKH example: input 0 spends a P2PK output, input 1 a
// P2WPKH output.
const (
	bip143UnsignedHex = "0100000002fff7f7881a8099afa6940d42d1e7f6362bec38171ea3edf433541db4e4ad969f0000000000eeffffffef51e1b804cc89d182d279655c3aa89e815b1b309fe287d9b2b55d57b90ec68a0100000000ffffffff02202cb206000000001976a9148280b37df378db99f66f85c95a783a76ac7a6d5988ac9093510d000000001976a9143bde42dbee7e4dbe6a21b2d50ce2f0167faa815988ac11000000"
	bip143SignedHex   = "01000000000102fff7f7881a8099afa6940d42d1e7f6362bec38171ea3edf433541db4e4ad969f00000000494830450221008b9d1dc26ba6a9cb62127b02742fa9d754cd3bebf337f7a55d114c8e5cdd30be022040529b194ba3f9281a99f2b1c0a19c0489bc22ede944ccf4ecbab4cc618ef3ed01eeffffffef51e1b804cc89d182d279655c3aa89e815b1b309fe287d9b2b55d57b90ec68a0100000000ffffffff02202cb206000000001976a9148280b37df378db99f66f85c95a783a76ac7a6d5988ac9093510d000000001976a9143bde42dbee7e4dbe6a21b2d50ce2f0167faa815988ac000247304402203609e17b84f6a7d30c80bfa610b5b4542f32a8a0d5447a12fb1366d7f01cc44a0220573a954c4518331561406f90300e8f3358f51928d43c212a8caed02de67eebee0121025476c2e83188368da1ff3e292e7acafcdb3566bb0ad253f62fc70f07aeee635711000000"

	bip143PrevID0  = "9f96ade4b41d5433f4eda31e1738ec2b36f6e7d1420d94a6af99801a88f7f7ff"
	bip143PrevID1  = "8ac60eb9575db5b2d987e29f301b5b819ea83a5c6579d282d189cc04b8e151ef"
	bip143Script0  = "2103c9f4836b9a4f77fc0d81f7bcb01b7f1b35916864b9476c241ce9fc198bd25432ac"
	bip143Script1  = "00141d0f172a0ecb48aee1be1f2687d2963ae33f71a1"
	bip143Amount0  = 625000000
	bip143Amount1  = 600000000
	bip143Secret0  = "bbc27228ddcb9209d7fd6f36b02f7dfa6252af40bb2f1cbc7a557da8027ff866"
	bip143Secret1  = "619c335025c7f4012e556c2a58b2506e30b8511b53ade95ea316fd8c3286feb9"
	bip143SigHash1 = "c37af31116d1b27caf68aae9e3ac82f1477929014d5b917657d0eb49478cb670"
	bip143HashPrev = "96b827c8483d4e9b96712b6713a7b68d6e8003a781feba36c31143470b4efd37"
	bip143HashSeq  = "52b0a642eea2fb7ae638c36f6252b6750293dbe574a806984b8e4d8548339a3b"
	bip143HashOuts = "863ef3e1a92afbfdb97f31ad0fc7683ee943e9abcf2501590ff8f6551f47e5e5"
)

// Mainnet 46df1a94: a 2-of-2 P2SH multisig spend. The output it spends
// locks to the same script hash as its last output.
const (
	p2shMultisigTxHex     = "0100000001868278ed6ddfb6c1ed3ad5f8181eb0c7a385aa0836f01d5e4789e6bd304d87221a000000db00483045022100dc92655fe37036f47756db8102e0d7d5e28b3beb83a8fef4f5dc0559bddfb94e02205a36d4e4e6c7fcd16658c50783e00c341609977aed3ad00937bf4ee942a8993701483045022100da6bee3c93766232079a01639d07fa869598749729ae323eab8eef53577d611b02207bef15429dcadce2121ea07f233115c6f09034c0be68db99980b9a6c5e75402201475221022626e955ea6ea6d98850c994f9107b036b1334f18ca8830bfff1295d21cfdb702103b287eaf122eea69030a0e9feed096bed8045c8b98bec453e1ffac7fbdbd4bb7152aeffffffff04d3b11400000000001976a914904a49878c0adfc3aa05de7afad2cc15f483a56a88ac7f400900000000001976a914418327e3f3dda4cf5b9089325a4b95abdfa0334088ac722c0c00000000001976a914ba35042cfe9fc66fd35ac2224eebdafd1028ad2788acdc4ace020000000017a91474d691da1574e6b3c192ecfb52cc8984ee7b6c568700000000"
	p2shMultisigTxID      = "46df1a9484d0a81d03ce0ee543ab6e1a23ed06175c104a178268fad381216c2b"
	p2shMultisigPrevTxID  = "22874d30bde689475e1df03608aa85a3c7b01e18f8d53aedc1b6df6ded788286"
	p2shMultisigPrevIndex = 26
	p2shMultisigPrevSPK   = "a91474d691da1574e6b3c192ecfb52cc8984ee7b6c5687"
)

// BIP143 P2SH-P2WPKH example, signed.
const (
	p2shP2WPKHTxHex     = "01000000000101db6b1b20aa0fd7b23880be2ecbd4a98130974cf4748fb66092ac4d3ceb1a547701000000181716001479091972186c449eb1ded22b78e40d009bdf0089feffffff02b8b4eb0b000000001976a914a457b684d7f0d539a46a45bbc043f35b59d0d96388ac0008af2f000000001976a914fd270b1ee6abcaea97fea7ad0402e8bd8ad6d77c88ac02473044022047ac8e878352d3ebbde1c94ce3a10d057c24175747116f8288e5d794d12d482f0220217f36a485cae903c713331d877c1f64677e3622ad4010726870540656fe9dcb012103ad1d8e89212f0b92c74d23bb710c00662ad1470198ac48c43f7d6f93a2a2687392040000"
	p2shP2WPKHTxID      = "1fe2da71c78b8821c08c28b2c0b01a69707f49b222cde2944b6592eef3bf28e7"
	p2shP2WPKHWTxID     = "ca158cb1164f93eff6b1c74d8b69f6db4e2f8b4eab301c701bbb21b55b3f424f"
	p2shP2WPKHPrevTxID  = "77541aeb3c4dac9260b68f74f44c973081a9d4cb2ebe8038b2d70faa201b6bdb"
	p2shP2WPKHPrevSPK   = "a9144733f37cf4db86fbc2efed2500b4f4e49f31202387"
	p2shP2WPKHAmount    = 1000000000
	p2shP2WPKHSigHash   = "64f3b0f4dd2bb3aa1ce8566d220cc74dda9df97d8490cc81d89d735c92e59fb6"
	p2shP2WPKHRedeemHex = "001479091972186c449eb1ded22b78e40d009bdf0089"
)

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func mustID(t testing.TB, s string) [32]byte {
	t.Helper()
	return [32]byte(mustHex(t, s))
}

func mustScript(t testing.TB, s string) *script.Script {
	t.Helper()
	sc, err := script.ParseRaw(mustHex(t, s))
	require.NoError(t, err)
	return sc
}

func mustParse(t testing.TB, s string) *Tx {
	t.Helper()
	tx, err := ParseHex(s, false)
	require.NoError(t, err)
	return tx
}

// legacyUTXOs resolves the single output spent by legacyTxHex.
func legacyUTXOs(t testing.TB) *UTXOSet {
	t.Helper()
	set := NewUTXOSet()
	set.Add(mustID(t, legacyPrevTxID), 0, NewTxOut(legacyPrevAmount, mustScript(t, legacyPrevScript)))
	return set
}

// bip143UTXOs resolves both outputs spent by bip143UnsignedHex.
func bip143UTXOs(t testing.TB) *UTXOSet {
	t.Helper()
	set := NewUTXOSet()
	set.Add(mustID(t, bip143PrevID0), 0, NewTxOut(bip143Amount0, mustScript(t, bip143Script0)))
	set.Add(mustID(t, bip143PrevID1), 1, NewTxOut(bip143Amount1, mustScript(t, bip143Script1)))
	return set
}

// p2shMultisigUTXOs resolves the output spent by p2shMultisigTxHex. Legacy
// sighashes do not commit to the amount, so any value verifies.
func p2shMultisigUTXOs(t testing.TB) *UTXOSet {
	t.Helper()
	set := NewUTXOSet()
	set.Add(mustID(t, p2shMultisigPrevTxID), p2shMultisigPrevIndex, NewTxOut(0, mustScript(t, p2shMultisigPrevSPK)))
	return set
}

// p2shP2WPKHUTXOs resolves the output spent by p2shP2WPKHTxHex.
func p2shP2WPKHUTXOs(t testing.TB) *UTXOSet {
	t.Helper()
	set := NewUTXOSet()
	set.Add(mustID(t, p2shP2WPKHPrevTxID), 1, NewTxOut(p2shP2WPKHAmount, mustScript(t, p2shP2WPKHPrevSPK)))
	return set
}
