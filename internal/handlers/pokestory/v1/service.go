// Package v1 serves pokestory.v1.PokeStoryService over gRPC.
//
// Every method is unary and exchanges google.protobuf.Struct messages whose
// fields are the snake_case JSON of the request and response types in
// messages.go.
package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "pokestory.v1.PokeStoryService"

// Method names
const (
	MethodListRoster                = "ListRoster"
	MethodAdoptCompanion            = "AdoptCompanion"
	MethodReleaseCompanion          = "ReleaseCompanion"
	MethodRenameCompanion           = "RenameCompanion"
	MethodStartStory                = "StartStory"
	MethodChooseOption              = "ChooseOption"
	MethodGetStory                  = "GetStory"
	MethodListSavedStories          = "ListSavedStories"
	MethodDeleteSavedStory          = "DeleteSavedStory"
	MethodListPokemon               = "ListPokemon"
	MethodGetPokemon                = "GetPokemon"
	MethodListRegions               = "ListRegions"
	MethodListLocations             = "ListLocations"
	MethodListGenerations           = "ListGenerations"
	MethodListProtagonistCandidates = "ListProtagonistCandidates"
	MethodToggleFavorite            = "ToggleFavorite"
	MethodListFavorites             = "ListFavorites"
)

// PokeStoryServiceServer is the server API for PokeStoryService
type PokeStoryServiceServer interface {
	ListRoster(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AdoptCompanion(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReleaseCompanion(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RenameCompanion(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartStory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ChooseOption(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSavedStories(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteSavedStory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPokemon(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPokemon(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRegions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListLocations(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListGenerations(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListProtagonistCandidates(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ToggleFavorite(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListFavorites(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(PokeStoryServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PokeStoryServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PokeStoryServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FullMethod returns the /service/method path for name
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// ServiceDesc is the grpc.ServiceDesc for PokeStoryService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PokeStoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(MethodListRoster, PokeStoryServiceServer.ListRoster),
		unaryHandler(MethodAdoptCompanion, PokeStoryServiceServer.AdoptCompanion),
		unaryHandler(MethodReleaseCompanion, PokeStoryServiceServer.ReleaseCompanion),
		unaryHandler(MethodRenameCompanion, PokeStoryServiceServer.RenameCompanion),
		unaryHandler(MethodStartStory, PokeStoryServiceServer.StartStory),
		unaryHandler(MethodChooseOption, PokeStoryServiceServer.ChooseOption),
		unaryHandler(MethodGetStory, PokeStoryServiceServer.GetStory),
		unaryHandler(MethodListSavedStories, PokeStoryServiceServer.ListSavedStories),
		unaryHandler(MethodDeleteSavedStory, PokeStoryServiceServer.DeleteSavedStory),
		unaryHandler(MethodListPokemon, PokeStoryServiceServer.ListPokemon),
		unaryHandler(MethodGetPokemon, PokeStoryServiceServer.GetPokemon),
		unaryHandler(MethodListRegions, PokeStoryServiceServer.ListRegions),
		unaryHandler(MethodListLocations, PokeStoryServiceServer.ListLocations),
		unaryHandler(MethodListGenerations, PokeStoryServiceServer.ListGenerations),
		unaryHandler(MethodListProtagonistCandidates, PokeStoryServiceServer.ListProtagonistCandidates),
		unaryHandler(MethodToggleFavorite, PokeStoryServiceServer.ToggleFavorite),
		unaryHandler(MethodListFavorites, PokeStoryServiceServer.ListFavorites),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pokestory/v1/pokestory.proto",
}

// RegisterPokeStoryServiceServer registers srv on s
func RegisterPokeStoryServiceServer(s grpc.ServiceRegistrar, srv PokeStoryServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
